package configcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current shelf configuration with source indicators.`,
		Example: `  # Show current config
  shelf config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(config.PathOrDefault(configPath), noColor)
		},
	}

	return cmd
}

// maskToken keeps the first and last four characters of long secrets.
func maskToken(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func runShow(configPath string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Printf("%-15s", label+":")
		if value == "" {
			_, _ = dim.Println("-")
			return
		}

		display := value
		if strings.Contains(strings.ToLower(label), "token") {
			display = maskToken(value)
		}

		fmt.Print(display)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Printf("  (source: %s)\n", source)
	}

	printField("URL", cfg.URL, fileCfg.URL, "SHELF_URL", "CONVEX_URL")
	printField("Email", cfg.Email, fileCfg.Email)
	printField("Token", cfg.Token, fileCfg.Token, "SHELF_TOKEN")
	printField("Render config", cfg.RenderConfig, fileCfg.RenderConfig, "SHELF_RENDER_CONFIG")
	printField("Fields file", cfg.FieldsFile, fileCfg.FieldsFile, "SHELF_FIELDS_FILE")
	printField("Probe timeout", cfg.Timeout().String(), fileCfg.Timeout().String())
	printField("Preview", fmt.Sprintf("%t", cfg.Preview), fmt.Sprintf("%t", fileCfg.Preview))

	fmt.Println()
	_, _ = dim.Printf("Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Println("(file not found)")
	}

	return nil
}
