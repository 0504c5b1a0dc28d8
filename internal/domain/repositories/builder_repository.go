package repositories

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// BuilderRepository builds an expression to validate a patched source file.
type BuilderRepository interface {
	Build(ctx context.Context, env entities.NixEnv, expr string) error
}
