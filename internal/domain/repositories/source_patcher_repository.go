package repositories

import "github.com/rios0rios0/nix-update-version/internal/domain/entities"

// SourcePatcherRepository rewrites a single line of a source file in place.
type SourcePatcherRepository interface {
	// LocateAndReplace patches the last line matching req.Matcher within the
	// search window and returns its 1-based line number.
	LocateAndReplace(req entities.PatchRequest) (int, error)
}
