//go:build unit

package commands_test

import (
	"context"
	"testing"

	logger "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/nix-update-version/internal/domain/commands"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories"
	"github.com/rios0rios0/nix-update-version/test/infrastructure/repositorydoubles"
)

func newSkeletonCommand(
	index *repositorydoubles.StubPackageIndexRepository,
	fetcher *repositorydoubles.SpyFetcherRepository,
) *commands.SkeletonCommand {
	log, _ := test.NewNullLogger()
	registry := infraRepos.NewIndexRegistry()
	registry.Register("pypi", func(*entities.Settings, logger.FieldLogger) repositories.PackageIndexRepository {
		return index
	})
	return commands.NewSkeletonCommand(registry, fetcher, log)
}

func TestSkeletonCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should render a buildPythonPackage expression", func(t *testing.T) {
		t.Parallel()

		// given
		index := &repositorydoubles.StubPackageIndexRepository{Project: &entities.IndexProject{
			Name:         "widget",
			Version:      "1.2.0",
			Summary:      `The "best" widget`,
			HomePage:     "https://widget.example",
			License:      "mit",
			RequiresDist: []string{"requests (>=2.0)", "Zope.Interface>=5", "pytest; extra == \"test\""},
		}}
		fetcher := &repositorydoubles.SpyFetcherRepository{Hash: "0skeletonhash"}
		command := newSkeletonCommand(index, fetcher)
		opts := commands.SkeletonOptions{
			Type:       "PyPI",
			Name:       "widget",
			Maintainer: "alice",
			ExtraBuild: "setuptools-scm",
			ExtraCheck: "pytest mock",
		}

		// when
		expression, err := command.Execute(context.Background(), strictSettings(), opts)

		// then
		require.NoError(t, err)
		assert.Contains(t, expression, "{ lib, fetchPypi, buildPythonPackage\n, requests\n, zope-interface\n, setuptools-scm\n, pytest\n, mock\n}:")
		assert.Contains(t, expression, `  pname = "widget";`)
		assert.Contains(t, expression, `  version = "1.2.0";`)
		assert.Contains(t, expression, `    sha256 = "0skeletonhash";`)
		assert.Contains(t, expression, "  propagatedBuildInputs = [\n    requests\n    zope-interface\n    setuptools-scm\n  ];")
		assert.Contains(t, expression, "  checkInputs = [\n    pytest\n    mock\n  ];")
		assert.Contains(t, expression, `    description = "The \"best\" widget";`)
		assert.Contains(t, expression, `    license = licenses."mit";`)
		assert.Contains(t, expression, "maintainers = with maintainers; [ alice ];")
		require.Len(t, fetcher.PlainSpecs, 1)
		assert.Equal(t, "https://index.test/widget-1.2.0.tar.gz", fetcher.PlainSpecs[0].PrimaryURL())
		assert.False(t, fetcher.PlainSpecs[0].Unpack)
	})

	t.Run("should honor explicit version and license", func(t *testing.T) {
		t.Parallel()

		// given
		index := &repositorydoubles.StubPackageIndexRepository{Project: &entities.IndexProject{
			Name: "widget", Version: "1.2.0",
		}}
		fetcher := &repositorydoubles.SpyFetcherRepository{Hash: "0hash"}
		command := newSkeletonCommand(index, fetcher)

		// when
		expression, err := command.Execute(context.Background(), strictSettings(), commands.SkeletonOptions{
			Type: "pypi", Name: "widget", Version: "1.0.0", License: "asl20",
		})

		// then
		require.NoError(t, err)
		assert.Contains(t, expression, `  version = "1.0.0";`)
		assert.Contains(t, expression, `licenses."asl20"`)
		assert.Equal(t, "https://index.test/widget-1.0.0.tar.gz", fetcher.PlainSpecs[0].PrimaryURL())
	})

	t.Run("should use a license placeholder when the index has none", func(t *testing.T) {
		t.Parallel()

		// given
		index := &repositorydoubles.StubPackageIndexRepository{Project: &entities.IndexProject{
			Name: "widget", Version: "1.2.0",
		}}
		command := newSkeletonCommand(index, &repositorydoubles.SpyFetcherRepository{Hash: "0hash"})

		// when
		expression, err := command.Execute(context.Background(), strictSettings(),
			commands.SkeletonOptions{Type: "pypi", Name: "widget"})

		// then
		require.NoError(t, err)
		assert.Contains(t, expression, `licenses."PLACEHOLDER_LICENSE"`)
	})

	t.Run("should reject unsupported types", func(t *testing.T) {
		t.Parallel()

		// given
		fetcher := &repositorydoubles.SpyFetcherRepository{}
		command := newSkeletonCommand(&repositorydoubles.StubPackageIndexRepository{}, fetcher)

		// when
		_, err := command.Execute(context.Background(), strictSettings(),
			commands.SkeletonOptions{Type: "npm", Name: "left-pad"})

		// then
		require.ErrorIs(t, err, entities.ErrInput)
		assert.Empty(t, fetcher.PlainSpecs)
	})

	t.Run("should return the fetch error", func(t *testing.T) {
		t.Parallel()

		// given
		index := &repositorydoubles.StubPackageIndexRepository{Project: &entities.IndexProject{
			Name: "widget", Version: "1.2.0",
		}}
		command := newSkeletonCommand(index, &repositorydoubles.SpyFetcherRepository{FetchErr: entities.ErrFetch})

		// when
		_, err := command.Execute(context.Background(), strictSettings(),
			commands.SkeletonOptions{Type: "pypi", Name: "widget"})

		// then
		require.ErrorIs(t, err, entities.ErrFetch)
	})
}

func TestRequirementNames(t *testing.T) {
	t.Parallel()

	t.Run("should normalize names and drop extras", func(t *testing.T) {
		t.Parallel()

		// given
		requirements := []string{
			"requests (>=2.0)",
			"typing_extensions>=4",
			"Zope.Interface",
			"requests[socks]",
			"pytest ; extra == 'test'",
			"importlib-metadata; python_version < \"3.8\"",
		}

		// when
		names := commands.RequirementNames(requirements)

		// then
		assert.Equal(t, []string{"requests", "typing-extensions", "zope-interface", "importlib-metadata"}, names)
	})
}

func TestNixString(t *testing.T) {
	t.Parallel()

	t.Run("should escape quotes and interpolations", func(t *testing.T) {
		t.Parallel()

		// given
		raw := `say "hi" to ${USER}` + "\nbye"

		// when
		escaped := commands.NixString(raw)

		// then
		assert.Equal(t, `say \"hi\" to \${USER} bye`, escaped)
	})
}
