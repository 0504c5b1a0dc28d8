package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// Discovery picks the newest upstream version of a package from the first
// resolver that recognizes its source URL.
type Discovery struct {
	resolvers []repositories.VersionResolverRepository
	log       logger.FieldLogger
}

// NewDiscovery creates a discovery engine. Resolvers are consulted in order.
func NewDiscovery(resolvers []repositories.VersionResolverRepository, log logger.FieldLogger) *Discovery {
	return &Discovery{resolvers: resolvers, log: log}
}

// Discover returns the version to upgrade to. Only urls[0] is considered.
func (it *Discovery) Discover(
	ctx context.Context,
	name, current string,
	urls []string,
	force bool,
) (entities.Version, error) {
	if len(urls) == 0 || urls[0] == "" {
		return entities.Version{}, fmt.Errorf("%w: %s declares no source url", entities.ErrInput, name)
	}
	url := urls[0]
	if len(urls) > 1 {
		it.log.Debugf("Ignoring %d additional urls of %s", len(urls)-1, name)
	}

	candidates, resolverName := it.candidates(ctx, url)
	if len(candidates) == 0 {
		return entities.Version{}, fmt.Errorf(
			"%w: %s (tried %s), please provide the version manually",
			entities.ErrNoResolverMatch, url, strings.Join(it.names(), ", "),
		)
	}

	latest, _ := entities.MaxVersion(candidates)
	it.log.Debugf("[%s] Found versions: %s", resolverName, strings.Join(entities.VersionStrings(candidates), ", "))

	currentVersion, modern := entities.ParseVersion(current)
	switch {
	case modern && latest.GreaterThan(currentVersion):
		return latest, nil
	case force:
		it.log.Warnf("Forcing %s %s although the current version is %s", name, latest, current)
		return latest, nil
	case !modern:
		return entities.Version{}, fmt.Errorf(
			"%w: current version %q of %s cannot be compared with %s, use --force",
			entities.ErrNoNewerVersion, current, name, latest,
		)
	default:
		return entities.Version{}, fmt.Errorf(
			"%w: current version %s of %s >= upstream %s",
			entities.ErrNoNewerVersion, current, name, latest,
		)
	}
}

// candidates returns the versions of the first resolver with a non-empty
// answer. Candidate sets are never merged.
func (it *Discovery) candidates(ctx context.Context, url string) ([]entities.Version, string) {
	for _, resolver := range it.resolvers {
		it.log.Debugf("Checking %s via %s", url, resolver.Name())
		versions, ok := resolver.TryResolve(ctx, url)
		if ok && len(versions) > 0 {
			return versions, resolver.Name()
		}
	}
	return nil, ""
}

func (it *Discovery) names() []string {
	names := make([]string, 0, len(it.resolvers))
	for _, resolver := range it.resolvers {
		names = append(names, resolver.Name())
	}
	return names
}
