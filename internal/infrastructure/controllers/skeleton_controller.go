package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/nix-update-version/internal/domain/commands"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// SkeletonController handles the "gen-expression" subcommand.
type SkeletonController struct {
	command commands.Skeleton
	log     *logger.Logger
}

// NewSkeletonController creates a new SkeletonController.
func NewSkeletonController(command commands.Skeleton, log *logger.Logger) *SkeletonController {
	return &SkeletonController{command: command, log: log}
}

// GetBind returns the Cobra command metadata for the skeleton controller.
func (it *SkeletonController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "gen-expression TYPE NAME",
		Short: "Print a new package expression generated from a package index",
		Long: `Generate a package expression from package index metadata.

Supported types:
  pypi    python package index, renders a buildPythonPackage expression`,
		Example: `  update-version gen-expression pypi requests
  update-version gen-expression --maintainer alice --check "pytest" pypi attrs`,
		Args: cobra.ExactArgs(2),
	}
}

// AddFlags adds skeleton-specific flags to the given Cobra command.
func (it *SkeletonController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("nix-path", "I", "", "Explicitly set NIX_PATH")
	cmd.Flags().String("version", "", "Explicitly set the version (default: latest release)")
	cmd.Flags().String("license", "", "Explicitly set the license")
	cmd.Flags().String("maintainer", "", "Set yourself as maintainer")
	cmd.Flags().String("build", "", "Extra build requirements (space delimited)")
	cmd.Flags().String("check", "", "Extra check requirements (space delimited)")
}

// Execute prints the generated expression to stdout.
func (it *SkeletonController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, it.log)
	if err != nil {
		return err
	}

	nixPath, _ := cmd.Flags().GetString("nix-path")
	version, _ := cmd.Flags().GetString("version")
	license, _ := cmd.Flags().GetString("license")
	maintainer, _ := cmd.Flags().GetString("maintainer")
	extraBuild, _ := cmd.Flags().GetString("build")
	extraCheck, _ := cmd.Flags().GetString("check")

	expression, err := it.command.Execute(cmd.Context(), settings, commands.SkeletonOptions{
		Type:       args[0],
		Name:       args[1],
		Version:    version,
		License:    license,
		Maintainer: maintainer,
		ExtraBuild: extraBuild,
		ExtraCheck: extraCheck,
		NixPath:    nixPath,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), expression)
	return err
}
