// Package config provides configuration management for shelf.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

// DefaultProbeTimeout bounds each embed metadata request.
const DefaultProbeTimeout = 10 * time.Second

// Config holds the shelf configuration.
type Config struct {
	URL          string        `yaml:"url"`
	Email        string        `yaml:"email,omitempty"`
	Token        string        `yaml:"token,omitempty"`
	RenderConfig string        `yaml:"render_config,omitempty"`
	FieldsFile   string        `yaml:"fields_file,omitempty"`
	Preview      bool          `yaml:"preview,omitempty"`
	ProbeTimeout time.Duration `yaml:"probe_timeout,omitempty"`
	OutputFormat string        `yaml:"output_format,omitempty"`
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return errors.New("url is not valid")
	}

	// Plain http is only accepted for a local deployment
	if u.Scheme != "https" && !(u.Scheme == "http" && isLocalHost(u.Hostname())) {
		return errors.New("url must use https")
	}

	if c.ProbeTimeout < 0 {
		return errors.New("probe_timeout must not be negative")
	}

	return nil
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// NormalizeURL strips trailing slashes and a trailing /api path.
func (c *Config) NormalizeURL() {
	c.URL = strings.TrimRight(c.URL, "/")
	c.URL = strings.TrimSuffix(c.URL, "/api")
}

// Timeout returns the embed probe timeout, defaulting to DefaultProbeTimeout.
func (c *Config) Timeout() time.Duration {
	if c.ProbeTimeout > 0 {
		return c.ProbeTimeout
	}
	return DefaultProbeTimeout
}

// LoadRenderConfig returns the tag configuration named by RenderConfig, or
// the built-in tags when none is set.
func (c *Config) LoadRenderConfig() (*md.Config, error) {
	if c.RenderConfig == "" {
		return md.DefaultConfig(), nil
	}
	return md.LoadConfig(c.RenderConfig)
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: SHELF_* → CONVEX_URL → existing config value
func (c *Config) LoadFromEnv() {
	if deployment := getEnvWithFallback("SHELF_URL", "CONVEX_URL"); deployment != "" {
		c.URL = deployment
	}
	if token := os.Getenv("SHELF_TOKEN"); token != "" {
		c.Token = token
	}
	if path := os.Getenv("SHELF_RENDER_CONFIG"); path != "" {
		c.RenderConfig = path
	}
	if path := os.Getenv("SHELF_FIELDS_FILE"); path != "" {
		c.FieldsFile = path
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "shelf", "config.yml")
	}

	// Fall back to ~/.config/shelf/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".shelf", "config.yml")
	}

	return filepath.Join(home, ".config", "shelf", "config.yml")
}

// PathOrDefault returns path, or DefaultConfigPath when path is empty.
func PathOrDefault(path string) string {
	if path == "" {
		return DefaultConfigPath()
	}
	return path
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// Resolve loads the configuration for commands that talk to the backend. It
// applies environment overrides, normalizes the URL and validates the result.
func Resolve(path string) (*Config, error) {
	cfg, err := LoadWithEnv(PathOrDefault(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'shelf init' to configure)", err)
	}

	cfg.NormalizeURL()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'shelf init' to configure)", err)
	}

	return cfg, nil
}
