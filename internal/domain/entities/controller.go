package entities

import "github.com/spf13/cobra"

// ControllerBind holds the Cobra metadata a controller is mounted with.
type ControllerBind struct {
	Use     string
	Short   string
	Long    string
	Example string
	Args    cobra.PositionalArgs
}

// Controller is a cobra-facing entry point backed by a domain command.
type Controller interface {
	GetBind() ControllerBind
	AddFlags(cmd *cobra.Command)
	Execute(cmd *cobra.Command, args []string) error
}
