//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// SpySourcePatcherRepository implements repositories.SourcePatcherRepository
// as a configurable spy.
type SpySourcePatcherRepository struct {
	Line int
	// Errs are returned in call order; missing entries mean success.
	Errs []error

	// spy
	Requests []entities.PatchRequest
}

var _ repositories.SourcePatcherRepository = (*SpySourcePatcherRepository)(nil)

func (s *SpySourcePatcherRepository) LocateAndReplace(req entities.PatchRequest) (int, error) {
	s.Requests = append(s.Requests, req)
	if idx := len(s.Requests) - 1; idx < len(s.Errs) && s.Errs[idx] != nil {
		return 0, s.Errs[idx]
	}
	return s.Line, nil
}
