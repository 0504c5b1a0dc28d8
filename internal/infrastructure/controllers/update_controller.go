package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/nix-update-version/internal/domain/commands"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// UpdateController handles the root command: update-version EXPR [VERSION [HASH]].
type UpdateController struct {
	command commands.Update
	log     *logger.Logger
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update, log *logger.Logger) *UpdateController {
	return &UpdateController{command: command, log: log}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update-version [flags] EXPR [VERSION [HASH]]",
		Short: "Bump the version and source hash of a nixpkgs expression",
		Long: `Update the version and source hash of a package expression in place.

If no VERSION is given, the latest upstream release is looked up from the
source url (GitHub or GitLab tags, PyPI releases or git tags). If no HASH
is given, the new source is prefetched. The changed expression is built at
the end. Tags with a "v" prefix are not considered, pass VERSION for those.

Caveats:
  Only packages whose meta section lives in the same file as the source
  are supported. If rev is not derived from the version, change it by hand
  and rerun with --force.`,
		Example: `  update-version python3Packages.requests
  update-version -I nixpkgs=~/src/nixpkgs --no-build hello 2.12.1
  update-version --dry-run python3Packages.flask`,
		Args: cobra.RangeArgs(1, 3),
	}
}

// AddFlags adds update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("nix-path", "I", "", "Explicitly set NIX_PATH")
	cmd.Flags().Bool("try-build", false, "Build the changed expression even if skip_build is configured")
	cmd.Flags().Bool("no-build", false, "Do not build the expression at the end")
	cmd.Flags().Bool("force", false, "Rehash even if the discovered version is not newer")
	cmd.Flags().Bool("dry-run", false, "Only report the version that would be used")
}

// Execute runs one update.
func (it *UpdateController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, it.log)
	if err != nil {
		return err
	}

	nixPath, _ := cmd.Flags().GetString("nix-path")
	tryBuild, _ := cmd.Flags().GetBool("try-build")
	noBuild, _ := cmd.Flags().GetBool("no-build")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if tryBuild {
		settings.SkipBuild = false
	}

	opts := commands.UpdateOptions{
		Expression: args[0],
		NixPath:    nixPath,
		Force:      force,
		SkipBuild:  noBuild,
		DryRun:     dryRun,
	}
	if len(args) > 1 {
		opts.Version = args[1]
	}
	if len(args) > 2 {
		opts.Hash = args[2]
	}

	result, err := it.command.Execute(cmd.Context(), settings, opts)
	if err != nil {
		it.reportPartial(result)
		return err
	}

	if result.DryRun {
		it.log.Infof("%s: %s -> %s (dry run)", opts.Expression, result.OldVersion, result.NewVersion)
		return nil
	}
	it.log.Infof(
		"%s: %s -> %s, %s:%d and %s:%d updated",
		opts.Expression, result.OldVersion, result.NewVersion,
		result.Package.SourceFile, result.VersionLine,
		result.Package.SourceFile, result.HashLine,
	)
	it.log.Info("Finished")
	return nil
}

// reportPartial lists the lines a failed update already rewrote, they are
// not rolled back.
func (it *UpdateController) reportPartial(result *commands.UpdateResult) {
	if result == nil || result.Package == nil || result.VersionLine == 0 {
		return
	}
	file := result.Package.SourceFile
	it.log.Warnf("%s:%d was changed to version %s", file, result.VersionLine, result.NewVersion)
	if result.HashLine != 0 {
		it.log.Warnf("%s:%d was changed to hash %s", file, result.HashLine, result.NewHash)
	}
}
