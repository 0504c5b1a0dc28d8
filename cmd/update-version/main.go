package main

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/nix-update-version/internal"
	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

func buildRootCommand(appContext *internal.AppInternal, logLevel string) *cobra.Command {
	controller := appContext.GetRootController()
	bind := controller.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           bind.Use,
		Short:         bind.Short,
		Long:          bind.Long,
		Example:       bind.Example,
		Args:          bind.Args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          controller.Execute,
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String("lol", logLevel,
		"Set the log level (trace, debug, info, warn, error)")

	controller.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:     bind.Use,
			Short:   bind.Short,
			Long:    bind.Long,
			Example: bind.Example,
			Args:    bind.Args,
			RunE:    controller.Execute,
		}

		// Add controller-specific flags
		controller.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)
	logLevel := entities.DefaultLogLevel
	if os.Getenv("DEBUG") == "true" {
		logLevel = logger.DebugLevel.String()
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	appContext := injectAppContext()
	cobraRoot := buildRootCommand(appContext, logLevel)
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.ExecuteContext(context.Background()); err != nil {
		logger.Fatalf("Error executing 'update-version': %s", err)
	}
}
