// config.go defines the tag configuration consumed by the renderer.
package md

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagConfig describes how one tag renders.
type TagConfig struct {
	Render      string   `yaml:"render,omitempty"`     // HTML element, default "div"
	Class       string   `yaml:"class,omitempty"`      // class attribute
	Attributes  []string `yaml:"attributes,omitempty"` // allowed attributes; empty allows all
	SelfClosing bool     `yaml:"self_closing,omitempty"`
}

// Config is the markup rendering configuration.
type Config struct {
	Tags map[string]TagConfig `yaml:"tags"`
}

// DefaultConfig returns the built-in tag set.
func DefaultConfig() *Config {
	return &Config{
		Tags: map[string]TagConfig{
			"callout": {
				Render:     "aside",
				Class:      "callout",
				Attributes: []string{"type", "title"},
			},
			"details": {
				Render:     "details",
				Attributes: []string{"summary"},
			},
			"toc": {
				Render:      "nav",
				Class:       "toc",
				SelfClosing: true,
			},
		},
	}
}

// Lookup returns the configuration for a tag name, normalizing to lowercase.
// Returns ok=false if the tag is not configured.
func (c *Config) Lookup(name string) (TagConfig, bool) {
	if c == nil {
		return TagConfig{}, false
	}
	tc, ok := c.Tags[strings.ToLower(name)]
	return tc, ok
}

// LoadConfig reads a tag configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read render config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse render config: %w", err)
	}
	if cfg.Tags == nil {
		cfg.Tags = map[string]TagConfig{}
	}

	return &cfg, nil
}
