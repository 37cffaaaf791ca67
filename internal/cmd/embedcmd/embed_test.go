package embedcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/shelf-cli/pkg/embed"
)

func probeServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/a.png":
			w.Header().Set("Content-Type", "image/png")
		case "/r.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func isolate(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yml")
}

func TestRunEmbed_URLs(t *testing.T) {
	var hits atomic.Int32
	server := probeServer(t, &hits)
	defer server.Close()

	var out bytes.Buffer
	opts := &embedOptions{
		configPath: isolate(t),
		urls:       []string{server.URL + "/a.png", server.URL + "/r.pdf", server.URL + "/missing"},
		output:     "json",
		noColor:    true,
		out:        &out,
	}

	require.NoError(t, runEmbed(opts, server.Client()))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 3)

	assert.Equal(t, server.URL+"/a.png", rows[0]["url"])
	assert.Equal(t, "image", rows[0]["state"])
	assert.Equal(t, "image/png", rows[0]["mime"])

	assert.Equal(t, "file", rows[1]["state"])
	assert.Equal(t, "application/pdf", rows[1]["mime"])
	assert.Equal(t, "file-text", rows[1]["icon"])
	assert.Equal(t, "report.pdf", rows[1]["filename"])

	// Unknown metadata falls back to an image.
	assert.Equal(t, "image", rows[2]["state"])
	assert.Equal(t, "-", rows[2]["mime"])
}

func TestRunEmbed_FileDeduplicates(t *testing.T) {
	var hits atomic.Int32
	server := probeServer(t, &hits)
	defer server.Close()

	src := server.URL + "/r.pdf"
	doc := "![[" + src + "]]\n\nagain ![[" + src + "]]\n"
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	var out bytes.Buffer
	opts := &embedOptions{
		configPath: isolate(t),
		urls:       []string{src},
		file:       path,
		output:     "json",
		out:        &out,
	}

	require.NoError(t, runEmbed(opts, server.Client()))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRunEmbed_NothingToResolve(t *testing.T) {
	err := runEmbed(&embedOptions{configPath: isolate(t), out: &bytes.Buffer{}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URLs")
}

func TestRunEmbed_InvalidOutput(t *testing.T) {
	err := runEmbed(&embedOptions{configPath: isolate(t), urls: []string{"https://x.io"}, output: "xml"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestResolveAll_KeepsOrder(t *testing.T) {
	var hits atomic.Int32
	server := probeServer(t, &hits)
	defer server.Close()

	urls := []string{server.URL + "/r.pdf", server.URL + "/a.png"}
	views, err := resolveAll(context.Background(), embed.NewResolver(server.Client()), urls, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, embed.StateFile, views[0].State)
	assert.Equal(t, embed.StateImage, views[1].State)
}

func TestRunEmbed_SlowURLStaysLoading(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-block:
			case <-r.Context().Done():
			}
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(block)

	var out, errOut bytes.Buffer
	opts := &embedOptions{
		configPath: isolate(t),
		urls:       []string{server.URL + "/fast.pdf", server.URL + "/slow"},
		timeout:    300 * time.Millisecond,
		output:     "json",
		noColor:    true,
		out:        &out,
		errOut:     &errOut,
	}

	require.NoError(t, runEmbed(opts, server.Client()))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "file", rows[0]["state"])
	assert.Equal(t, "application/pdf", rows[0]["mime"])
	assert.Equal(t, server.URL+"/slow", rows[1]["url"])
	assert.Equal(t, "loading", rows[1]["state"])
	assert.Contains(t, errOut.String(), "some embeds did not load")
}

func TestSize(t *testing.T) {
	assert.Equal(t, "-", size(-1))
	assert.Equal(t, "0 B", size(0))
	assert.Equal(t, "2.0 kB", size(2048))
}
