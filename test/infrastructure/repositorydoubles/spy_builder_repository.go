//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// SpyBuilderRepository implements repositories.BuilderRepository as a
// configurable spy.
type SpyBuilderRepository struct {
	BuildErr error

	// spy: expressions that were built
	Built []string
}

var _ repositories.BuilderRepository = (*SpyBuilderRepository)(nil)

func (s *SpyBuilderRepository) Build(_ context.Context, _ entities.NixEnv, expr string) error {
	s.Built = append(s.Built, expr)
	return s.BuildErr
}
