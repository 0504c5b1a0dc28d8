package repositories

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// FetcherRepository downloads sources with the external prefetch tools and
// returns their content hash.
type FetcherRepository interface {
	FetchPlain(ctx context.Context, env entities.NixEnv, spec entities.SourceFetchSpec) (string, error)
	FetchVersionControlled(ctx context.Context, env entities.NixEnv, spec entities.SourceFetchSpec) (string, error)
}
