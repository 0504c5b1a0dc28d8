package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// loadSettings reads the optional settings file and applies the log level:
// an explicit --lol, then log_level from the file, then the --lol default.
func loadSettings(cmd *cobra.Command, log *logger.Logger) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	settings, err := entities.LoadSettings(configPath, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInput, err)
	}

	levelName := settings.LogLevel
	if flag := cmd.Flags().Lookup("lol"); flag != nil && (flag.Changed || levelName == "") {
		levelName = flag.Value.String()
	}
	if levelName == "" {
		levelName = entities.DefaultLogLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInput, err)
	}
	log.SetLevel(level)

	return settings, nil
}
