package entities

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a "modern" version string: one to three numeric components with
// optional pre-release and build suffixes, written without a leading "v".
// Strings that do not fit this grammar are legacy and have no Version value.
type Version struct {
	raw       string
	canonical string
}

// ParseVersion classifies s. It returns false for legacy strings, which must
// never be coerced into a comparable value.
func ParseVersion(s string) (Version, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "v") || strings.HasPrefix(s, "V") {
		return Version{}, false
	}
	normalized := "v" + s
	if !semver.IsValid(normalized) {
		return Version{}, false
	}
	return Version{raw: s, canonical: normalized}, true
}

// MustParseVersion is ParseVersion for literals known to be modern.
func MustParseVersion(s string) Version {
	v, ok := ParseVersion(s)
	if !ok {
		panic("legacy version string: " + s)
	}
	return v
}

// String returns the version exactly as it was written upstream.
func (v Version) String() string { return v.raw }

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool { return v.canonical == "" }

// Compare returns -1, 0 or +1 following semantic version precedence.
// Build metadata is ignored.
func (v Version) Compare(o Version) int {
	return semver.Compare(v.canonical, o.canonical)
}

// GreaterThan reports whether v has strictly higher precedence than o.
func (v Version) GreaterThan(o Version) bool { return v.Compare(o) > 0 }

// IsPrerelease reports whether v carries a pre-release suffix.
func (v Version) IsPrerelease() bool {
	return semver.Prerelease(v.canonical) != ""
}

// ParseVersions keeps the modern entries of raw in their original order.
func ParseVersions(raw []string) []Version {
	versions := make([]Version, 0, len(raw))
	for _, s := range raw {
		if v, ok := ParseVersion(s); ok {
			versions = append(versions, v)
		}
	}
	return versions
}

// StableVersions filters out pre-releases.
func StableVersions(versions []Version) []Version {
	stable := make([]Version, 0, len(versions))
	for _, v := range versions {
		if !v.IsPrerelease() {
			stable = append(stable, v)
		}
	}
	return stable
}

// MaxVersion returns the highest version of the set, or false if it is empty.
func MaxVersion(versions []Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	highest := versions[0]
	for _, v := range versions[1:] {
		if v.GreaterThan(highest) {
			highest = v
		}
	}
	return highest, true
}

// VersionStrings renders versions for logging.
func VersionStrings(versions []Version) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.String())
	}
	return out
}
