package configcmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/api"
	"github.com/open-cli-collective/shelf-cli/internal/config"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity with configured credentials",
		Long:  `Test that shelf can reach your deployment with the current configuration.`,
		Example: `  # Test connection
  shelf config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noColor, _ := cmd.Flags().GetBool("no-color")

			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			return runTest(noColor, cfg)
		},
	}

	return cmd
}

func runTest(noColor bool, cfg *config.Config) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	fmt.Printf("Testing connection to %s...\n", cfg.URL)

	client := api.NewClient(cfg.URL, cfg.Token)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		var apiErr *api.ErrorResponse
		if !errors.As(err, &apiErr) {
			red.Println("✗ Connection failed:", err)
			fmt.Println("\nCheck your URL with: shelf config show")
			fmt.Println("Reconfigure with: shelf init")
			return fmt.Errorf("connection failed: %w", err)
		}

		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			red.Println("✗ Authentication failed:", apiErr.Error())
			fmt.Println("\nSign in again with: shelf login")
			return fmt.Errorf("authentication failed")
		case http.StatusForbidden:
			red.Println("✗ Access denied: 403 Forbidden")
			fmt.Println("\nCheck your permissions.")
			return fmt.Errorf("access denied")
		default:
			red.Printf("✗ Unexpected response: %d\n", apiErr.StatusCode)
			return fmt.Errorf("unexpected status code: %d", apiErr.StatusCode)
		}
	}

	green.Println("✓ Deployment reachable")
	if cfg.Token == "" {
		fmt.Println("\nNot signed in. Run: shelf login")
		return nil
	}

	user, err := client.Viewer(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	green.Println("✓ Token accepted")
	fmt.Printf("\nAuthenticated as: %s\n", user.Email)

	return nil
}
