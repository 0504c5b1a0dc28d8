package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories"
)

// Update is the interface for the version bump of a single expression.
type Update interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateOptions) (*UpdateResult, error)
}

// UpdateOptions holds the command line arguments of one update.
type UpdateOptions struct {
	Expression string // attribute path, e.g. "python3Packages.requests"
	Version    string // explicit target version, discovered when empty
	Hash       string // explicit new hash, fetched when empty
	NixPath    string // -I override
	Force      bool
	SkipBuild  bool
	DryRun     bool
}

// UpdateResult summarizes what an update changed.
type UpdateResult struct {
	Package     *entities.PackageReference
	OldVersion  string
	NewVersion  string
	OldHash     string
	NewHash     string
	VersionLine int
	HashLine    int
	Built       bool
	DryRun      bool
}

// UpdateCommand rewrites the version and hash of a package expression:
// introspect -> discover -> patch version -> fetch -> patch hash -> build.
type UpdateCommand struct {
	resolverRegistry *infraRepos.ResolverRegistry
	expressions      repositories.ExpressionRepository
	fetcher          repositories.FetcherRepository
	builder          repositories.BuilderRepository
	patcher          repositories.SourcePatcherRepository
	log              logger.FieldLogger
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	resolverRegistry *infraRepos.ResolverRegistry,
	expressions repositories.ExpressionRepository,
	fetcher repositories.FetcherRepository,
	builder repositories.BuilderRepository,
	patcher repositories.SourcePatcherRepository,
	log logger.FieldLogger,
) *UpdateCommand {
	return &UpdateCommand{
		resolverRegistry: resolverRegistry,
		expressions:      expressions,
		fetcher:          fetcher,
		builder:          builder,
		patcher:          patcher,
		log:              log,
	}
}

// Execute runs one update cycle. File edits already made are kept when a
// later step fails.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateOptions,
) (*UpdateResult, error) {
	if opts.Expression == "" {
		return nil, fmt.Errorf("%w: no expression given", entities.ErrInput)
	}

	env, cleanup, err := newNixEnv(settings, opts.NixPath, it.log)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pkg, spec, err := it.introspect(ctx, env, opts.Expression)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{
		Package:    pkg,
		OldVersion: pkg.Version,
		OldHash:    spec.CurrentHash,
		DryRun:     opts.DryRun,
	}

	result.NewVersion = opts.Version
	if result.NewVersion == "" {
		it.log.Infof("Trying to guess a new version for %s", pkg.Name)
		discovery := NewDiscovery(it.resolverRegistry.Build(settings, it.log), it.log)
		latest, discoverErr := discovery.Discover(ctx, pkg.Name, pkg.Version, spec.URLs, opts.Force)
		if discoverErr != nil {
			return nil, discoverErr
		}
		result.NewVersion = latest.String()
		it.log.Infof("Found newer version for %s: %s (was %s)", pkg.Name, result.NewVersion, pkg.Version)
	}

	if opts.DryRun {
		it.log.Infof(
			"Dry run: would bump %s from %s to %s in %s",
			pkg.Name, pkg.Version, result.NewVersion, pkg.SourceFile,
		)
		return result, nil
	}

	if result.VersionLine, err = it.patchVersion(pkg, result.NewVersion); err != nil {
		return result, err
	}

	result.NewHash = opts.Hash
	if result.NewHash == "" {
		if result.NewHash, err = it.fetch(ctx, env, opts.Expression); err != nil {
			return result, err
		}
		it.log.Infof("New hash for %s is %s", opts.Expression, result.NewHash)
	}

	if result.HashLine, err = it.patchHash(pkg, spec, result.NewHash); err != nil {
		return result, err
	}

	if opts.SkipBuild || settings.SkipBuild {
		it.log.Infof("Build of %s skipped", opts.Expression)
		return result, nil
	}
	if err = it.builder.Build(ctx, env, opts.Expression); err != nil {
		return result, err
	}
	result.Built = true
	return result, nil
}

func (it *UpdateCommand) introspect(
	ctx context.Context,
	env entities.NixEnv,
	expr string,
) (*entities.PackageReference, *entities.SourceFetchSpec, error) {
	pkg, err := it.expressions.GetPackageInfo(ctx, env, expr)
	if err != nil {
		return nil, nil, wrapInput(expr, err)
	}
	it.log.Infof("File for %s-%s is %s:%d", pkg.Name, pkg.Version, pkg.SourceFile, pkg.SourceLine)

	spec, err := it.expressions.GetSourceFetchSpec(ctx, env, expr)
	if err != nil {
		return nil, nil, wrapInput(expr, err)
	}
	it.log.Infof("Source urls %v, %s hash %s", spec.URLs, spec.HashAlgorithm, spec.CurrentHash)
	return pkg, spec, nil
}

// fetch re-evaluates the source, whose url or revision follows the new
// version, and prefetches it.
func (it *UpdateCommand) fetch(ctx context.Context, env entities.NixEnv, expr string) (string, error) {
	spec, err := it.expressions.GetSourceFetchSpec(ctx, env, expr)
	if err != nil {
		return "", wrapInput(expr, err)
	}
	if spec.IsVersionControlled {
		it.log.Infof("Fetching %s at %s", spec.RepoURL, spec.Revision)
		return it.fetcher.FetchVersionControlled(ctx, env, *spec)
	}
	it.log.Infof("Fetching %s", spec.PrimaryURL())
	return it.fetcher.FetchPlain(ctx, env, *spec)
}

func (it *UpdateCommand) patchVersion(pkg *entities.PackageReference, newVersion string) (int, error) {
	matcher, err := entities.VersionLineMatcher(pkg.Version)
	if err != nil {
		return 0, err
	}
	return it.patcher.LocateAndReplace(entities.PatchRequest{
		FilePath:      pkg.SourceFile,
		WindowEndLine: pkg.SourceLine,
		OldValue:      pkg.Version,
		NewValue:      newVersion,
		Matcher:       matcher,
	})
}

func (it *UpdateCommand) patchHash(
	pkg *entities.PackageReference,
	spec *entities.SourceFetchSpec,
	newHash string,
) (int, error) {
	matcher, err := entities.HashLineMatcher(spec.HashAlgorithm, spec.CurrentHash)
	if err != nil {
		return 0, err
	}
	return it.patcher.LocateAndReplace(entities.PatchRequest{
		FilePath:      pkg.SourceFile,
		WindowEndLine: pkg.SourceLine,
		OldValue:      spec.CurrentHash,
		NewValue:      newHash,
		Matcher:       matcher,
	})
}

func wrapInput(expr string, err error) error {
	if errors.Is(err, entities.ErrInput) {
		return fmt.Errorf("unable to find expression %s: %w", expr, err)
	}
	return fmt.Errorf("%w: unable to find expression %s: %w", entities.ErrInput, expr, err)
}
