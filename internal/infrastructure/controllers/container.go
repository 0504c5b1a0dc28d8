package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewUpdateController); err != nil {
		return err
	}
	if err := container.Provide(NewSkeletonController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates the subcommand controllers for the AppInternal.
// The update controller backs the root command itself.
func NewControllers(
	skeletonController *SkeletonController,
) *[]entities.Controller {
	return &[]entities.Controller{
		skeletonController,
	}
}
