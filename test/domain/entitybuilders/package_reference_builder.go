//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// PackageReferenceBuilder helps create test package references with a fluent interface.
type PackageReferenceBuilder struct {
	*testkit.BaseBuilder
	expression string
	name       string
	version    string
	sourceFile string
	sourceLine int
}

// NewPackageReferenceBuilder creates a new package reference builder with sensible defaults.
func NewPackageReferenceBuilder() *PackageReferenceBuilder {
	return &PackageReferenceBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		expression:  "python3Packages.widget",
		name:        "python3.12-widget",
		version:     "1.2.0",
		sourceFile:  "pkgs/development/python-modules/widget/default.nix",
		sourceLine:  30,
	}
}

// WithExpression sets the attribute path.
func (b *PackageReferenceBuilder) WithExpression(expression string) *PackageReferenceBuilder {
	b.expression = expression
	return b
}

// WithName sets the derivation name.
func (b *PackageReferenceBuilder) WithName(name string) *PackageReferenceBuilder {
	b.name = name
	return b
}

// WithVersion sets the declared version.
func (b *PackageReferenceBuilder) WithVersion(version string) *PackageReferenceBuilder {
	b.version = version
	return b
}

// WithSourceFile sets the file holding the derivation.
func (b *PackageReferenceBuilder) WithSourceFile(path string) *PackageReferenceBuilder {
	b.sourceFile = path
	return b
}

// WithSourceLine sets the meta.position line.
func (b *PackageReferenceBuilder) WithSourceLine(line int) *PackageReferenceBuilder {
	b.sourceLine = line
	return b
}

// Build creates the package reference (satisfies testkit.Builder interface).
func (b *PackageReferenceBuilder) Build() interface{} {
	return b.BuildPackageReference()
}

// BuildPackageReference creates the package reference with a concrete return type.
func (b *PackageReferenceBuilder) BuildPackageReference() *entities.PackageReference {
	return &entities.PackageReference{
		Expression: b.expression,
		Name:       b.name,
		Version:    b.version,
		SourceFile: b.sourceFile,
		SourceLine: b.sourceLine,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PackageReferenceBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.expression = "python3Packages.widget"
	b.name = "python3.12-widget"
	b.version = "1.2.0"
	b.sourceFile = "pkgs/development/python-modules/widget/default.nix"
	b.sourceLine = 30
	return b
}

// Clone creates a deep copy of the PackageReferenceBuilder.
func (b *PackageReferenceBuilder) Clone() testkit.Builder {
	return &PackageReferenceBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		expression:  b.expression,
		name:        b.name,
		version:     b.version,
		sourceFile:  b.sourceFile,
		sourceLine:  b.sourceLine,
	}
}
