package repositories

import (
	"fmt"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	domainRepos "github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

// IndexFactory is a constructor function that creates a PackageIndexRepository from the settings.
type IndexFactory func(settings *entities.Settings, log logger.FieldLogger) domainRepos.PackageIndexRepository

// IndexRegistry manages the package indexes expressions can be generated from.
type IndexRegistry struct {
	indexes map[string]IndexFactory
}

// NewIndexRegistry creates an empty index registry.
func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		indexes: make(map[string]IndexFactory),
	}
}

// Register adds an index factory under the given type name (e.g. "pypi").
func (r *IndexRegistry) Register(name string, factory IndexFactory) {
	r.indexes[name] = factory
}

// Get returns a configured index for the given type name.
func (r *IndexRegistry) Get(
	name string,
	settings *entities.Settings,
	log logger.FieldLogger,
) (domainRepos.PackageIndexRepository, error) {
	factory, ok := r.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", entities.ErrInput, name)
	}
	return factory(settings, log), nil
}

// Names returns the sorted list of registered index names.
func (r *IndexRegistry) Names() []string {
	names := make([]string, 0, len(r.indexes))
	for name := range r.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
