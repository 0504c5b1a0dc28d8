//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	logger "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/nix-update-version/internal/domain/commands"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories"
	"github.com/rios0rios0/nix-update-version/test/domain/entitybuilders"
	"github.com/rios0rios0/nix-update-version/test/infrastructure/repositorydoubles"
)

type updateFixture struct {
	expressions *repositorydoubles.SpyExpressionRepository
	fetcher     *repositorydoubles.SpyFetcherRepository
	builder     *repositorydoubles.SpyBuilderRepository
	patcher     *repositorydoubles.SpySourcePatcherRepository
	resolver    *repositorydoubles.StubVersionResolverRepository
	command     *commands.UpdateCommand
}

func newUpdateFixture(resolver *repositorydoubles.StubVersionResolverRepository) *updateFixture {
	log, _ := test.NewNullLogger()
	registry := infraRepos.NewResolverRegistry()
	registry.Register("stub", func(*entities.Settings, logger.FieldLogger) repositories.VersionResolverRepository {
		return resolver
	})

	f := &updateFixture{
		expressions: &repositorydoubles.SpyExpressionRepository{
			Package: entitybuilders.NewPackageReferenceBuilder().BuildPackageReference(),
			Specs: []*entities.SourceFetchSpec{
				entitybuilders.NewSourceFetchSpecBuilder().BuildSourceFetchSpec(),
				entitybuilders.NewSourceFetchSpecBuilder().
					WithURLs("mirror://pypi/w/widget/widget-1.2.1.tar.gz").
					BuildSourceFetchSpec(),
			},
		},
		fetcher:  &repositorydoubles.SpyFetcherRepository{Hash: "0newhash"},
		builder:  &repositorydoubles.SpyBuilderRepository{},
		patcher:  &repositorydoubles.SpySourcePatcherRepository{Line: 12},
		resolver: resolver,
	}
	f.command = commands.NewUpdateCommand(registry, f.expressions, f.fetcher, f.builder, f.patcher, log)
	return f
}

func strictSettings() *entities.Settings {
	settings := entities.NewDefaultSettings()
	settings.StrictEvaluation = true
	return settings
}

func TestUpdateCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should discover, patch, fetch and build", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.1.0", "1.2.1"))
		opts := commands.UpdateOptions{Expression: "python3Packages.widget", NixPath: "nixpkgs=/src/nixpkgs"}

		// when
		result, err := f.command.Execute(context.Background(), strictSettings(), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", result.OldVersion)
		assert.Equal(t, "1.2.1", result.NewVersion)
		assert.Equal(t, "0oldhash", result.OldHash)
		assert.Equal(t, "0newhash", result.NewHash)
		assert.True(t, result.Built)

		require.Len(t, f.patcher.Requests, 2)
		versionReq := f.patcher.Requests[0]
		assert.Equal(t, "pkgs/development/python-modules/widget/default.nix", versionReq.FilePath)
		assert.Equal(t, 30, versionReq.WindowEndLine)
		assert.Equal(t, "1.2.0", versionReq.OldValue)
		assert.Equal(t, "1.2.1", versionReq.NewValue)
		assert.True(t, versionReq.Matcher.MatchString(`  version = "1.2.0";`))
		hashReq := f.patcher.Requests[1]
		assert.Equal(t, "0oldhash", hashReq.OldValue)
		assert.Equal(t, "0newhash", hashReq.NewValue)
		assert.True(t, hashReq.Matcher.MatchString(`    sha256 = "0oldhash";`))

		require.Len(t, f.fetcher.PlainSpecs, 1)
		assert.Equal(t, "mirror://pypi/w/widget/widget-1.2.1.tar.gz", f.fetcher.PlainSpecs[0].PrimaryURL())
		assert.Equal(t, []string{"python3Packages.widget"}, f.builder.Built)
		assert.Equal(t, []string{"mirror://pypi/w/widget/widget-1.2.0.tar.gz"}, f.resolver.ResolvedURLs)
		assert.Equal(t, "nixpkgs=/src/nixpkgs", f.expressions.Envs[0].NixPath)
		assert.Empty(t, f.expressions.Envs[0].NixpkgsConfig)
	})

	t.Run("should use the explicit version without discovery", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "9.9.9"))
		opts := commands.UpdateOptions{Expression: "python3Packages.widget", Version: "1.5.0"}

		// when
		result, err := f.command.Execute(context.Background(), strictSettings(), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.5.0", result.NewVersion)
		assert.Equal(t, "1.5.0", f.patcher.Requests[0].NewValue)
		assert.Empty(t, f.resolver.ResolvedURLs)
	})

	t.Run("should use the explicit hash without fetching", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		opts := commands.UpdateOptions{Expression: "python3Packages.widget", Hash: "0givenhash"}

		// when
		result, err := f.command.Execute(context.Background(), strictSettings(), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, "0givenhash", result.NewHash)
		assert.Equal(t, "0givenhash", f.patcher.Requests[1].NewValue)
		assert.Empty(t, f.fetcher.PlainSpecs)
		assert.Empty(t, f.fetcher.GitSpecs)
	})

	t.Run("should not touch any file on a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		opts := commands.UpdateOptions{Expression: "python3Packages.widget", DryRun: true}

		// when
		result, err := f.command.Execute(context.Background(), strictSettings(), opts)

		// then
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, "1.3.0", result.NewVersion)
		assert.Empty(t, f.patcher.Requests)
		assert.Empty(t, f.fetcher.PlainSpecs)
		assert.Empty(t, f.builder.Built)
	})

	t.Run("should skip the build when requested by flag or settings", func(t *testing.T) {
		t.Parallel()

		// given
		byFlag := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		bySettings := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		settings := strictSettings()
		settings.SkipBuild = true

		// when
		flagResult, flagErr := byFlag.command.Execute(context.Background(), strictSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widget", SkipBuild: true})
		settingsResult, settingsErr := bySettings.command.Execute(context.Background(), settings,
			commands.UpdateOptions{Expression: "python3Packages.widget"})

		// then
		require.NoError(t, flagErr)
		require.NoError(t, settingsErr)
		assert.False(t, flagResult.Built)
		assert.False(t, settingsResult.Built)
		assert.Empty(t, byFlag.builder.Built)
		assert.Empty(t, bySettings.builder.Built)
	})

	t.Run("should fetch git checkouts with the version controlled fetcher", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		checkout := entitybuilders.NewSourceFetchSpecBuilder().
			WithGitCheckout("https://github.com/acme/widget.git", "1.2.0")
		f.expressions.Specs = []*entities.SourceFetchSpec{
			checkout.BuildSourceFetchSpec(),
			checkout.WithGitCheckout("https://github.com/acme/widget.git", "1.3.0").BuildSourceFetchSpec(),
		}

		// when
		_, err := f.command.Execute(context.Background(), strictSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widget"})

		// then
		require.NoError(t, err)
		require.Len(t, f.fetcher.GitSpecs, 1)
		assert.Equal(t, "1.3.0", f.fetcher.GitSpecs[0].Revision)
		assert.Empty(t, f.fetcher.PlainSpecs)
	})

	t.Run("should return an input error when the expression cannot be evaluated", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		f.expressions.PackageErr = errors.New("attribute 'widgte' missing")

		// when
		_, err := f.command.Execute(context.Background(), strictSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widgte"})

		// then
		require.ErrorIs(t, err, entities.ErrInput)
		assert.Empty(t, f.patcher.Requests)
	})

	t.Run("should stop when no newer version exists", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.1.0"))

		// when
		_, err := f.command.Execute(context.Background(), strictSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widget"})

		// then
		require.ErrorIs(t, err, entities.ErrNoNewerVersion)
		assert.Empty(t, f.patcher.Requests)
	})

	t.Run("should stop before fetching when the version line is missing", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		f.patcher.Errs = []error{entities.ErrPatternNotFound}

		// when
		_, err := f.command.Execute(context.Background(), strictSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widget"})

		// then
		require.ErrorIs(t, err, entities.ErrPatternNotFound)
		assert.Empty(t, f.fetcher.PlainSpecs)
		assert.Empty(t, f.builder.Built)
	})

	t.Run("should keep the patched lines when the build fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))
		f.builder.BuildErr = entities.ErrBuild

		// when
		result, err := f.command.Execute(context.Background(), strictSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widget"})

		// then
		require.ErrorIs(t, err, entities.ErrBuild)
		assert.Equal(t, 12, result.VersionLine)
		assert.Equal(t, 12, result.HashLine)
		assert.False(t, result.Built)
	})

	t.Run("should pass and then remove a permissive nixpkgs config", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))

		// when
		_, err := f.command.Execute(context.Background(), entities.NewDefaultSettings(),
			commands.UpdateOptions{Expression: "python3Packages.widget", NixPath: "nixpkgs=/src"})

		// then
		require.NoError(t, err)
		configPath := f.expressions.Envs[0].NixpkgsConfig
		require.NotEmpty(t, configPath)
		_, statErr := os.Stat(configPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should require an expression", func(t *testing.T) {
		t.Parallel()

		// given
		f := newUpdateFixture(repositorydoubles.NewMatchingResolver("stub", "1.3.0"))

		// when
		_, err := f.command.Execute(context.Background(), strictSettings(), commands.UpdateOptions{})

		// then
		require.ErrorIs(t, err, entities.ErrInput)
	})
}

func TestNewNixEnv(t *testing.T) {
	t.Parallel()

	t.Run("should write the permissive config unless evaluation is strict", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := test.NewNullLogger()
		settings := entities.NewDefaultSettings()
		settings.NixPath = "nixpkgs=/from/settings"

		// when
		env, cleanup, err := commands.NewNixEnv(settings, "", log)

		// then
		require.NoError(t, err)
		assert.Equal(t, "nixpkgs=/from/settings", env.NixPath)
		data, readErr := os.ReadFile(env.NixpkgsConfig)
		require.NoError(t, readErr)
		assert.Equal(t, "pkgs: { allowUnfree = true; allowBroken = true; }", string(data))
		cleanup()
		_, statErr := os.Stat(env.NixpkgsConfig)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should prefer the flag over the settings", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := test.NewNullLogger()
		settings := strictSettings()
		settings.NixPath = "nixpkgs=/from/settings"

		// when
		env, cleanup, err := commands.NewNixEnv(settings, "nixpkgs=/from/flag", log)

		// then
		require.NoError(t, err)
		defer cleanup()
		assert.Equal(t, "nixpkgs=/from/flag", env.NixPath)
		assert.Empty(t, env.NixpkgsConfig)
	})

	t.Run("should expand the home directory inside prefixed entries", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := test.NewNullLogger()
		home, homeErr := os.UserHomeDir()
		require.NoError(t, homeErr)

		// when
		env, cleanup, err := commands.NewNixEnv(strictSettings(), "nixpkgs=~/src/nixpkgs", log)

		// then
		require.NoError(t, err)
		defer cleanup()
		assert.Equal(t, "nixpkgs="+filepath.Join(home, "src/nixpkgs"), env.NixPath)
	})
}
