//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// SpyFetcherRepository implements repositories.FetcherRepository as a
// configurable spy.
type SpyFetcherRepository struct {
	Hash     string
	FetchErr error

	// spy
	PlainSpecs []entities.SourceFetchSpec
	GitSpecs   []entities.SourceFetchSpec
}

var _ repositories.FetcherRepository = (*SpyFetcherRepository)(nil)

func (s *SpyFetcherRepository) FetchPlain(
	_ context.Context,
	_ entities.NixEnv,
	spec entities.SourceFetchSpec,
) (string, error) {
	s.PlainSpecs = append(s.PlainSpecs, spec)
	return s.Hash, s.FetchErr
}

func (s *SpyFetcherRepository) FetchVersionControlled(
	_ context.Context,
	_ entities.NixEnv,
	spec entities.SourceFetchSpec,
) (string, error) {
	s.GitSpecs = append(s.GitSpecs, spec)
	return s.Hash, s.FetchErr
}
