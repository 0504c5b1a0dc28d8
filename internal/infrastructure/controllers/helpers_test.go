//go:build unit

package controllers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

type flaggedController interface {
	AddFlags(cmd *cobra.Command)
}

// newCommand returns a command carrying the controller flags plus the global
// --config and --lol flags, with --config pointing to a settings file.
func newCommand(t *testing.T, controller flaggedController, settingsYAML string) *cobra.Command {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "update-version.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(settingsYAML), 0o600))

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().String("lol", entities.DefaultLogLevel, "")
	controller.AddFlags(cmd)
	require.NoError(t, cmd.Flags().Set("config", configPath))
	return cmd
}
