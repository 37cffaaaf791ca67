// Package root provides the root command for the shelf CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/internal/cmd/completion"
	"github.com/open-cli-collective/shelf-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/shelf-cli/internal/cmd/decoratecmd"
	"github.com/open-cli-collective/shelf-cli/internal/cmd/embedcmd"
	"github.com/open-cli-collective/shelf-cli/internal/cmd/filter"
	initcmd "github.com/open-cli-collective/shelf-cli/internal/cmd/init"
	"github.com/open-cli-collective/shelf-cli/internal/cmd/login"
	"github.com/open-cli-collective/shelf-cli/internal/version"
)

// NewCmdRoot creates the root command for shelf.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "A command-line companion for the shelf asset tracker",
		Long: `shelf works with shelf notes and assets from the terminal.

It previews markdown notes the way the editor decorates them, with
{% tag %} blocks rendered and ![[url]] embeds resolved, and builds
query-builder filters for assets.

Get started by running: shelf init
Then sign in with: shelf login`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/shelf/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	cmd.SetVersionTemplate("shelf version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(login.NewCmdLogin())
	cmd.AddCommand(decoratecmd.NewCmdDecorate())
	cmd.AddCommand(decoratecmd.NewCmdRender())
	cmd.AddCommand(embedcmd.NewCmdEmbed())
	cmd.AddCommand(filter.NewCmdFilter())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
