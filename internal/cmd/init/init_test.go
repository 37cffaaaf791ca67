package init

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/shelf-cli/internal/config"
)

func TestVerifyConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`"1.18.0"`))
	}))
	defer server.Close()

	err := verifyConnection(&config.Config{URL: server.URL})
	assert.NoError(t, err)
}

func TestVerifyConnection_StaleToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/version" {
			w.Write([]byte(`"1.18.0"`))
			return
		}
		w.Write([]byte(`{"status":"success","value":null}`))
	}))
	defer server.Close()

	err := verifyConnection(&config.Config{URL: server.URL, Token: "stale"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Contains(t, err.Error(), "shelf login")
}

func TestVerifyConnection_NetworkError(t *testing.T) {
	err := verifyConnection(&config.Config{URL: "http://127.0.0.1:1"})
	require.Error(t, err)
}

func TestVerifyConnection_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
		errContain string
	}{
		{
			name:       "200 OK",
			statusCode: http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "401 Unauthorized",
			statusCode: http.StatusUnauthorized,
			wantErr:    true,
			errContain: "authentication failed",
		},
		{
			name:       "403 Forbidden",
			statusCode: http.StatusForbidden,
			wantErr:    true,
			errContain: "access denied",
		},
		{
			name:       "404 Not Found",
			statusCode: http.StatusNotFound,
			wantErr:    true,
			errContain: "unexpected status code: 404",
		},
		{
			name:       "503 Service Unavailable",
			statusCode: http.StatusServiceUnavailable,
			wantErr:    true,
			errContain: "unexpected status code: 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			err := verifyConnection(&config.Config{URL: server.URL})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFinishInit_SavesNormalizedConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := &config.Config{URL: "https://happy-otter-123.convex.cloud/api/"}
	require.NoError(t, finishInit(cfg, configPath, true))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://happy-otter-123.convex.cloud", loaded.URL)
}

func TestFinishInit_RejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	err := finishInit(&config.Config{URL: "http://remote.example.com"}, configPath, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https")

	err = finishInit(&config.Config{
		URL:          "https://happy-otter-123.convex.cloud",
		RenderConfig: filepath.Join(t.TempDir(), "missing.yml"),
	}, configPath, true)
	require.Error(t, err)

	_, err = os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
}

func TestOptionalFile(t *testing.T) {
	assert.NoError(t, optionalFile(""))

	path := filepath.Join(t.TempDir(), "tags.yml")
	require.NoError(t, os.WriteFile(path, []byte("tags: {}\n"), 0600))
	assert.NoError(t, optionalFile(path))

	assert.Error(t, optionalFile(filepath.Join(t.TempDir(), "missing.yml")))
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	// Verify command structure
	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"url", "render-config", "fields-file"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	noVerifyFlag := cmd.Flags().Lookup("no-verify")
	require.NotNil(t, noVerifyFlag)
	assert.Equal(t, "false", noVerifyFlag.DefValue)
}
