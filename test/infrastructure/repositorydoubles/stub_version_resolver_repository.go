//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// StubVersionResolverRepository implements repositories.VersionResolverRepository
// with a fixed answer.
type StubVersionResolverRepository struct {
	ResolverName string
	Versions     []entities.Version
	Matched      bool

	// spy: urls that were requested
	ResolvedURLs []string
}

var _ repositories.VersionResolverRepository = (*StubVersionResolverRepository)(nil)

// NewMatchingResolver returns a stub that recognizes every URL and answers
// with the given versions.
func NewMatchingResolver(name string, versions ...string) *StubVersionResolverRepository {
	parsed := make([]entities.Version, 0, len(versions))
	for _, v := range versions {
		parsed = append(parsed, entities.MustParseVersion(v))
	}
	return &StubVersionResolverRepository{ResolverName: name, Versions: parsed, Matched: true}
}

// NewNonMatchingResolver returns a stub that never recognizes a URL.
func NewNonMatchingResolver(name string) *StubVersionResolverRepository {
	return &StubVersionResolverRepository{ResolverName: name}
}

func (s *StubVersionResolverRepository) Name() string { return s.ResolverName }

func (s *StubVersionResolverRepository) TryResolve(_ context.Context, url string) ([]entities.Version, bool) {
	s.ResolvedURLs = append(s.ResolvedURLs, url)
	if !s.Matched {
		return nil, false
	}
	return s.Versions, true
}
