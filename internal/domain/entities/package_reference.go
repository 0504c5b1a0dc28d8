package entities

// PackageReference is the evaluated identity of a package expression.
type PackageReference struct {
	Expression string // Attribute path the user passed, e.g. "python3Packages.requests"
	Name       string // Parsed derivation name without version
	Version    string // Version exactly as declared in the source file
	SourceFile string // File holding the derivation (meta.position)
	SourceLine int    // 1-based line of meta.position, end of the patch search window
}

// CurrentVersion parses the declared version. Legacy versions yield false.
func (p PackageReference) CurrentVersion() (Version, bool) {
	return ParseVersion(p.Version)
}

// SourceFetchSpec is a snapshot of the src derivation attributes.
type SourceFetchSpec struct {
	IsVersionControlled bool
	URLs                []string // Only the first entry is ever used
	HashAlgorithm       string   // outputHashAlgo, e.g. "sha256"
	CurrentHash         string   // outputHash
	Unpack              bool     // src has a postFetch step, fetch with --unpack

	// set for version-controlled checkouts only
	RepoURL         string
	Revision        string
	DeepClone       bool
	LeaveDotGit     bool
	FetchSubmodules bool
}

// PrimaryURL returns the first declared URL or an empty string.
func (s SourceFetchSpec) PrimaryURL() string {
	if len(s.URLs) == 0 {
		return ""
	}
	return s.URLs[0]
}
