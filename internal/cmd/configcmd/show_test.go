package configcmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/shelf-cli/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg := &config.Config{
		URL:          "https://happy-otter-123.convex.cloud",
		Email:        "test@example.com",
		Token:        "test-token-value",
		FieldsFile:   "/etc/shelf/fields.yml",
		ProbeTimeout: 5 * time.Second,
	}
	require.NoError(t, cfg.Save(configPath))

	err := runShow(configPath, true)
	require.NoError(t, err)
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)

	err := runShow(filepath.Join(t.TempDir(), "config.yml"), true)
	require.NoError(t, err)
}

func TestRunShow_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHELF_URL", "https://env.convex.cloud")

	err := runShow(filepath.Join(t.TempDir(), "config.yml"), true)
	require.NoError(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "test********alue", maskToken("test-token-value"))
	assert.Equal(t, "*****", maskToken("short"))
	assert.Equal(t, "", maskToken(""))
}
