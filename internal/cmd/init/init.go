// Package init provides the init command for shelf.
package init

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/api"
	"github.com/open-cli-collective/shelf-cli/internal/config"
)

type initOptions struct {
	configPath   string
	url          string
	renderConfig string
	fieldsFile   string
	noVerify     bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize shelf configuration",
		Long: `Initialize shelf with your deployment settings.

This command will guide you through setting up your deployment URL and
the optional tag and field definitions. The configuration will be saved
to ~/.config/shelf/config.yml.

Sign in afterwards with: shelf login`,
		Example: `  # Interactive setup
  shelf init

  # Pre-populate URL
  shelf init --url https://happy-otter-123.convex.cloud`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Deployment URL (e.g., https://happy-otter-123.convex.cloud)")
	cmd.Flags().StringVar(&opts.renderConfig, "render-config", "", "Path to a tag configuration file")
	cmd.Flags().StringVar(&opts.fieldsFile, "fields-file", "", "Path to a field definitions file")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip connection verification")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := config.PathOrDefault(opts.configPath)

	// Check if config already exists
	existing, err := config.Load(configPath)
	if err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	} else {
		existing = &config.Config{}
	}

	// Keep the session from an earlier login
	cfg := &config.Config{
		URL:          existing.URL,
		Email:        existing.Email,
		Token:        existing.Token,
		RenderConfig: existing.RenderConfig,
		FieldsFile:   existing.FieldsFile,
	}

	// Use prefilled values or prompt
	if opts.url != "" {
		cfg.URL = opts.url
	}
	if opts.renderConfig != "" {
		cfg.RenderConfig = opts.renderConfig
	}
	if opts.fieldsFile != "" {
		cfg.FieldsFile = opts.fieldsFile
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Deployment URL").
				Description("The URL of your shelf backend").
				Placeholder("https://happy-otter-123.convex.cloud").
				Value(&cfg.URL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("URL is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Tag configuration (optional)").
				Description("YAML file describing how {% tags %} render").
				Placeholder("~/.config/shelf/tags.yml").
				Value(&cfg.RenderConfig).
				Validate(optionalFile),

			huh.NewInput().
				Title("Field definitions (optional)").
				Description("YAML file of filterable fields; fetched from the backend when empty").
				Placeholder("~/.config/shelf/fields.yml").
				Value(&cfg.FieldsFile).
				Validate(optionalFile),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	return finishInit(cfg, configPath, opts.noVerify)
}

// finishInit validates, verifies and saves a completed configuration.
func finishInit(cfg *config.Config, configPath string, noVerify bool) error {
	cfg.NormalizeURL()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.LoadRenderConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify connection unless skipped
	if !noVerify {
		fmt.Print("Verifying connection... ")
		if err := verifyConnection(cfg); err != nil {
			fmt.Println("failed!")
			return fmt.Errorf("connection verification failed: %w", err)
		}
		fmt.Println("success!")
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  shelf login")
	fmt.Println("  shelf render notes.md")

	return nil
}

func optionalFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	return nil
}

func verifyConnection(cfg *config.Config) error {
	err := api.NewClient(cfg.URL, cfg.Token).Ping(context.Background())
	if err == nil {
		return nil
	}

	var apiErr *api.ErrorResponse
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed - sign in again with 'shelf login'")
	case http.StatusForbidden:
		return fmt.Errorf("access denied - check your permissions")
	default:
		return fmt.Errorf("unexpected status code: %d", apiErr.StatusCode)
	}
}
