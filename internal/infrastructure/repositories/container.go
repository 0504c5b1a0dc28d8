package repositories

import (
	"go.uber.org/dig"

	gitRepo "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories/gitlab"
	nixRepo "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories/nix"
	pyRepo "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories/pypi"
	srcRepo "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories/sourcefile"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Resolvers are consulted in registration order
	if err := container.Provide(func() *ResolverRegistry {
		reg := NewResolverRegistry()
		reg.Register("github", ghRepo.NewGitHubTagsRepository)
		reg.Register("gitlab", glRepo.NewGitLabTagsRepository)
		reg.Register("pypi", pyRepo.NewPyPIResolverRepository)
		reg.Register("git", gitRepo.NewGitTagsRepository)
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() *IndexRegistry {
		reg := NewIndexRegistry()
		reg.Register("pypi", pyRepo.NewPyPIIndexRepository)
		return reg
	}); err != nil {
		return err
	}

	providers := []any{
		nixRepo.NewExpressionRepository,
		nixRepo.NewFetcherRepository,
		nixRepo.NewBuilderRepository,
		srcRepo.NewSourcePatcherRepository,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}

	return nil
}
