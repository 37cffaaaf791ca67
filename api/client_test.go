package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err)
	return data
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://happy-otter-123.convex.cloud/", "token123")

	assert.NotNil(t, client)
	assert.Equal(t, "https://happy-otter-123.convex.cloud", client.BaseURL())
	assert.Equal(t, "token123", client.token)

	other := client.WithToken("other")
	assert.Equal(t, "other", other.token)
	assert.Equal(t, "token123", client.token)
}

func TestClient_AuthHeader(t *testing.T) {
	var capturedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "mytoken")
	_, err := client.do(context.Background(), "GET", "/test", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer mytoken", capturedAuth)

	_, err = NewClient(server.URL, "").do(context.Background(), "GET", "/test", nil)
	require.NoError(t, err)
	assert.Empty(t, capturedAuth)
}

func TestClient_Headers(t *testing.T) {
	var capturedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "mytoken")
	_, err := client.do(context.Background(), "GET", "/test", nil)
	require.NoError(t, err)

	assert.Equal(t, "application/json", capturedHeaders.Get("Accept"))
	assert.Equal(t, "application/json", capturedHeaders.Get("Content-Type"))
}

func TestClient_ErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		responseBody   string
		expectedErrMsg string
	}{
		{
			name:           "401 unauthorized",
			statusCode:     401,
			responseBody:   `{"message": "Authentication failed"}`,
			expectedErrMsg: "Authentication failed",
		},
		{
			name:           "404 not found",
			statusCode:     404,
			responseBody:   `{"code": "NotFound", "message": "No such function"}`,
			expectedErrMsg: "No such function",
		},
		{
			name:           "function error envelope",
			statusCode:     400,
			responseBody:   `{"status": "error", "errorMessage": "Invalid args"}`,
			expectedErrMsg: "Invalid args",
		},
		{
			name:           "error with errors array",
			statusCode:     400,
			responseBody:   `{"message": "Bad request", "errors": ["Invalid field", "Missing value"]}`,
			expectedErrMsg: "Invalid field",
		},
		{
			name:           "empty body falls back to status text",
			statusCode:     503,
			responseBody:   `{}`,
			expectedErrMsg: "Service Unavailable",
		},
		{
			name:           "non-JSON body",
			statusCode:     500,
			responseBody:   `upstream exploded`,
			expectedErrMsg: "API error (status 500): upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient(server.URL, "token")
			_, err := client.do(context.Background(), "GET", "/test", nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
		})
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Slow response
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.do(ctx, "GET", "/test", nil)
	require.Error(t, err)
}

func TestClient_URLConstruction(t *testing.T) {
	var capturedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")

	tests := []struct {
		inputPath    string
		expectedPath string
	}{
		{"/api/query", "/api/query"},
		{"api/query", "/api/query"},
	}

	for _, tt := range tests {
		_, err := client.do(context.Background(), "GET", tt.inputPath, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.expectedPath, capturedPath)
	}
}

func TestClient_Ping(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/version":
			w.Write([]byte(`"1.18.0"`))
		case "/api/query":
			w.Write([]byte(`{"status":"success","value":{"_id":"u1","email":"ada@example.com"}}`))
		}
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL, "").Ping(context.Background()))
	assert.Equal(t, []string{"/version"}, paths)

	paths = nil
	require.NoError(t, NewClient(server.URL, "tok").Ping(context.Background()))
	assert.Equal(t, []string{"/version", "/api/query"}, paths)
}
