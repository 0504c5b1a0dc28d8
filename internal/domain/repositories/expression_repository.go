package repositories

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// ExpressionRepository evaluates package expressions with the external
// evaluator.
type ExpressionRepository interface {
	// GetPackageInfo returns name, version and source position of expr.
	GetPackageInfo(ctx context.Context, env entities.NixEnv, expr string) (*entities.PackageReference, error)

	// GetSourceFetchSpec returns the fetch attributes of expr's src.
	GetSourceFetchSpec(ctx context.Context, env entities.NixEnv, expr string) (*entities.SourceFetchSpec, error)
}
