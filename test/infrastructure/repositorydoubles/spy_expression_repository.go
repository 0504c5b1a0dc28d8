//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// SpyExpressionRepository implements repositories.ExpressionRepository as a
// configurable spy.
type SpyExpressionRepository struct {
	// --- GetPackageInfo ---
	Package    *entities.PackageReference
	PackageErr error

	// --- GetSourceFetchSpec ---
	// Specs are returned in call order; the last one is repeated.
	Specs   []*entities.SourceFetchSpec
	SpecErr error

	// spy
	Envs      []entities.NixEnv
	SpecCalls int
}

var _ repositories.ExpressionRepository = (*SpyExpressionRepository)(nil)

func (s *SpyExpressionRepository) GetPackageInfo(
	_ context.Context,
	env entities.NixEnv,
	_ string,
) (*entities.PackageReference, error) {
	s.Envs = append(s.Envs, env)
	if s.PackageErr != nil {
		return nil, s.PackageErr
	}
	pkg := *s.Package
	return &pkg, nil
}

func (s *SpyExpressionRepository) GetSourceFetchSpec(
	_ context.Context,
	env entities.NixEnv,
	_ string,
) (*entities.SourceFetchSpec, error) {
	s.Envs = append(s.Envs, env)
	s.SpecCalls++
	if s.SpecErr != nil {
		return nil, s.SpecErr
	}
	idx := min(s.SpecCalls, len(s.Specs)) - 1
	spec := *s.Specs[idx]
	return &spec, nil
}
