package internal

import (
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/infrastructure/controllers"
)

// AppInternal holds the controllers the command line is assembled from.
type AppInternal struct {
	rootController *controllers.UpdateController
	controllers    []entities.Controller
}

// NewAppInternal creates the application context.
func NewAppInternal(
	rootController *controllers.UpdateController,
	subcommands *[]entities.Controller,
) *AppInternal {
	return &AppInternal{
		rootController: rootController,
		controllers:    *subcommands,
	}
}

// GetRootController returns the controller behind the root command.
func (it *AppInternal) GetRootController() *controllers.UpdateController {
	return it.rootController
}

// GetControllers returns the subcommand controllers.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
