package repositories

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	domainRepos "github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// ResolverFactory builds a version resolver from the runtime settings.
type ResolverFactory func(settings *entities.Settings, log logger.FieldLogger) domainRepos.VersionResolverRepository

type namedResolverFactory struct {
	name    string
	factory ResolverFactory
}

// ResolverRegistry keeps the version resolvers in priority order. The first
// registered resolver is consulted first.
type ResolverRegistry struct {
	factories []namedResolverFactory
}

// NewResolverRegistry creates an empty resolver registry.
func NewResolverRegistry() *ResolverRegistry {
	return &ResolverRegistry{}
}

// Register appends a resolver factory. Registering an existing name replaces
// the factory but keeps its original position.
func (r *ResolverRegistry) Register(name string, factory ResolverFactory) {
	for i := range r.factories {
		if r.factories[i].name == name {
			r.factories[i].factory = factory
			return
		}
	}
	r.factories = append(r.factories, namedResolverFactory{name: name, factory: factory})
}

// Build instantiates every resolver, in priority order.
func (r *ResolverRegistry) Build(
	settings *entities.Settings,
	log logger.FieldLogger,
) []domainRepos.VersionResolverRepository {
	result := make([]domainRepos.VersionResolverRepository, 0, len(r.factories))
	for _, f := range r.factories {
		result = append(result, f.factory(settings, log))
	}
	return result
}

// Names returns the registered resolver names in priority order.
func (r *ResolverRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for _, f := range r.factories {
		names = append(names, f.name)
	}
	return names
}
