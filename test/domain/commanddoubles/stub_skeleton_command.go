//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/nix-update-version/internal/domain/commands"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// StubSkeletonCommand is a stub implementation of commands.Skeleton.
type StubSkeletonCommand struct {
	ExecuteCallCount int
	Expression       string
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.SkeletonOptions
}

var _ commands.Skeleton = (*StubSkeletonCommand)(nil)

func (s *StubSkeletonCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.SkeletonOptions,
) (string, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Expression, s.ExecuteErr
}
