// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// envVars lists the environment variables that override the config file.
var envVars = []string{"SHELF_URL", "CONVEX_URL", "SHELF_TOKEN", "SHELF_RENDER_CONFIG", "SHELF_FIELDS_FILE"}

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shelf configuration",
		Long:  `Commands for viewing, testing, and clearing shelf configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}
