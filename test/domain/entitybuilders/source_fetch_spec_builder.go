//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

const defaultSourceURL = "mirror://pypi/w/widget/widget-1.2.0.tar.gz"

// SourceFetchSpecBuilder helps create test source fetch specs with a fluent interface.
type SourceFetchSpecBuilder struct {
	*testkit.BaseBuilder
	spec entities.SourceFetchSpec
}

// NewSourceFetchSpecBuilder creates a builder for a plain sha256 url source.
func NewSourceFetchSpecBuilder() *SourceFetchSpecBuilder {
	return &SourceFetchSpecBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		spec:        defaultSourceFetchSpec(),
	}
}

func defaultSourceFetchSpec() entities.SourceFetchSpec {
	return entities.SourceFetchSpec{
		URLs:          []string{defaultSourceURL},
		HashAlgorithm: "sha256",
		CurrentHash:   "0oldhash",
	}
}

// WithURLs sets the source urls.
func (b *SourceFetchSpecBuilder) WithURLs(urls ...string) *SourceFetchSpecBuilder {
	b.spec.URLs = urls
	return b
}

// WithHash sets the hash algorithm and current hash.
func (b *SourceFetchSpecBuilder) WithHash(algorithm, hash string) *SourceFetchSpecBuilder {
	b.spec.HashAlgorithm = algorithm
	b.spec.CurrentHash = hash
	return b
}

// WithGitCheckout turns the source into a git checkout of url at rev.
func (b *SourceFetchSpecBuilder) WithGitCheckout(url, rev string) *SourceFetchSpecBuilder {
	b.spec.IsVersionControlled = true
	b.spec.URLs = []string{url}
	b.spec.RepoURL = url
	b.spec.Revision = rev
	return b
}

// Build creates the fetch spec (satisfies testkit.Builder interface).
func (b *SourceFetchSpecBuilder) Build() interface{} {
	return b.BuildSourceFetchSpec()
}

// BuildSourceFetchSpec creates the fetch spec with a concrete return type.
func (b *SourceFetchSpecBuilder) BuildSourceFetchSpec() *entities.SourceFetchSpec {
	spec := b.spec
	spec.URLs = append([]string(nil), b.spec.URLs...)
	return &spec
}

// Reset clears the builder state, allowing it to be reused.
func (b *SourceFetchSpecBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.spec = defaultSourceFetchSpec()
	return b
}

// Clone creates a deep copy of the SourceFetchSpecBuilder.
func (b *SourceFetchSpecBuilder) Clone() testkit.Builder {
	return &SourceFetchSpecBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		spec:        *b.BuildSourceFetchSpec(),
	}
}
