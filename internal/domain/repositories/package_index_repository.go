package repositories

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// PackageIndexRepository reads project metadata from a package index.
type PackageIndexRepository interface {
	GetProject(ctx context.Context, name string) (*entities.IndexProject, error)

	// SourceURL returns the download URL of a release, as written in an
	// expression.
	SourceURL(name, version string) string
}
