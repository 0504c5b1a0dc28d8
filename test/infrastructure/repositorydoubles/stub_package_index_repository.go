//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// StubPackageIndexRepository implements repositories.PackageIndexRepository
// with a fixed project.
type StubPackageIndexRepository struct {
	Project    *entities.IndexProject
	ProjectErr error

	// spy: names that were requested
	RequestedNames []string
}

var _ repositories.PackageIndexRepository = (*StubPackageIndexRepository)(nil)

func (s *StubPackageIndexRepository) GetProject(_ context.Context, name string) (*entities.IndexProject, error) {
	s.RequestedNames = append(s.RequestedNames, name)
	return s.Project, s.ProjectErr
}

func (s *StubPackageIndexRepository) SourceURL(name, version string) string {
	return "https://index.test/" + name + "-" + version + ".tar.gz"
}
