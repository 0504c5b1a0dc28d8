package repositories

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// VersionResolverRepository abstracts one upstream source of release versions
// (GitHub tags, PyPI releases, plain git tags, ...).
type VersionResolverRepository interface {
	// Name returns the resolver identifier (e.g. "github", "pypi").
	Name() string

	// TryResolve returns the modern upstream versions for the given source URL.
	// It returns false when the URL is not recognized or the upstream could not
	// be queried; failures are logged by the implementation, never returned.
	TryResolve(ctx context.Context, url string) ([]entities.Version, bool)
}
