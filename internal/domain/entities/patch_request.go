package entities

import (
	"fmt"
	"regexp"
)

// PatchRequest describes a single-line substitution inside a source file.
type PatchRequest struct {
	FilePath      string
	WindowEndLine int // last 0-based line index scanned, inclusive
	OldValue      string
	NewValue      string
	Matcher       *regexp.Regexp
}

// VersionLineMatcher matches `version = "<old>";` or `rev = "<old>";`,
// optionally followed by a trailing comment.
func VersionLineMatcher(oldVersion string) (*regexp.Regexp, error) {
	if oldVersion == "" {
		return nil, fmt.Errorf("%w: empty version cannot be matched", ErrInput)
	}
	return regexp.Compile(
		`\b(version|rev)\s*=\s*"` + regexp.QuoteMeta(oldVersion) + `";\s*(#.*)?$`,
	)
}

// HashLineMatcher matches `<algorithm> = "<old>";`, optionally followed by a
// trailing comment.
func HashLineMatcher(algorithm, oldHash string) (*regexp.Regexp, error) {
	if algorithm == "" {
		return nil, fmt.Errorf("%w: empty hash algorithm cannot be matched", ErrInput)
	}
	if oldHash == "" {
		return nil, fmt.Errorf("%w: empty hash cannot be matched", ErrInput)
	}
	return regexp.Compile(
		`\b(` + regexp.QuoteMeta(algorithm) + `)\s*=\s*"` + regexp.QuoteMeta(oldHash) + `";\s*(#.*)?$`,
	)
}
