package entities

import "errors"

var (
	// ErrInput marks unresolvable package references and malformed patch targets.
	ErrInput = errors.New("input error")

	// ErrNoNewerVersion is returned when upstream has nothing newer than the current version.
	ErrNoNewerVersion = errors.New("no newer version")

	// ErrNoResolverMatch is returned when no resolver produced any candidate for the URL.
	ErrNoResolverMatch = errors.New("no resolver recognized the source url")

	// ErrPatternNotFound is returned when the patcher finds no matching line in the window.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrFetch wraps failures of the external prefetch tools.
	ErrFetch = errors.New("fetch failed")

	// ErrBuild wraps failures of the external build tool.
	ErrBuild = errors.New("build failed")
)
