package decoratecmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/shelf-cli/pkg/decorate"
)

const tableDoc = "before\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n\nafter\n"

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("SHELF_RENDER_CONFIG", "")
	return filepath.Join(t.TempDir(), "config.yml")
}

func decodeRows(t *testing.T, out *bytes.Buffer) []map[string]string {
	t.Helper()
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	return rows
}

func TestRunDecorate_Table(t *testing.T) {
	var out bytes.Buffer
	opts := &decorateOptions{
		configPath: isolate(t),
		file:       writeDoc(t, tableDoc),
		cursor:     -1,
		output:     "json",
		noColor:    true,
		out:        &out,
	}

	require.NoError(t, runDecorate(opts))

	rows := decodeRows(t, &out)
	require.Len(t, rows, 1)
	assert.Equal(t, "8", rows[0]["from"])
	assert.Equal(t, "41", rows[0]["to"])
	assert.Equal(t, "replace-with-rendered-markup", rows[0]["kind"])
	assert.Equal(t, "true", rows[0]["block"])
	assert.Equal(t, "| a | b | | --- | --- | | 1 | 2 |", rows[0]["detail"])
}

func TestRunDecorate_CursorInsideTable(t *testing.T) {
	var out bytes.Buffer
	opts := &decorateOptions{
		configPath: isolate(t),
		file:       writeDoc(t, tableDoc),
		cursor:     strings.Index(tableDoc, "| 1"),
		noColor:    true,
		out:        &out,
	}

	require.NoError(t, runDecorate(opts))
	assert.Equal(t, "No decorations.\n", out.String())
}

func TestRunDecorate_PreviewFlag(t *testing.T) {
	var out bytes.Buffer
	opts := &decorateOptions{
		configPath: isolate(t),
		file:       writeDoc(t, tableDoc),
		cursor:     strings.Index(tableDoc, "| 1"),
		preview:    true,
		previewSet: true,
		output:     "json",
		out:        &out,
	}

	require.NoError(t, runDecorate(opts))
	assert.Len(t, decodeRows(t, &out), 1)
}

func TestRunDecorate_EmbedFromStdin(t *testing.T) {
	var out bytes.Buffer
	opts := &decorateOptions{
		configPath: isolate(t),
		cursor:     -1,
		output:     "json",
		stdin:      strings.NewReader("See ![[https://x.io/a.png]] now\n"),
		out:        &out,
	}

	require.NoError(t, runDecorate(opts))

	rows := decodeRows(t, &out)
	require.Len(t, rows, 2)
	assert.Equal(t, "hide-delimiter", rows[0]["kind"])
	assert.Equal(t, "cm-markdoc-hidden", rows[0]["detail"])
	assert.Equal(t, "replace-with-embed-widget", rows[1]["kind"])
	assert.Equal(t, "27", rows[1]["from"])
	assert.Equal(t, "https://x.io/a.png", rows[1]["detail"])
}

func TestRunDecorate_Range(t *testing.T) {
	src := "> quote\n\nmiddle\n\n" + tableDoc
	var out bytes.Buffer
	opts := &decorateOptions{
		configPath: isolate(t),
		file:       writeDoc(t, src),
		cursor:     -1,
		bounds:     "0:5",
		output:     "json",
		out:        &out,
	}

	require.NoError(t, runDecorate(opts))

	rows := decodeRows(t, &out)
	require.Len(t, rows, 1)
	assert.Equal(t, "0", rows[0]["from"])
}

func TestRunDecorate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		opts   decorateOptions
		errMsg string
	}{
		{
			name:   "bad output format",
			opts:   decorateOptions{output: "yaml", cursor: -1},
			errMsg: "invalid output format",
		},
		{
			name:   "missing file",
			opts:   decorateOptions{file: "/nonexistent/doc.md", cursor: -1},
			errMsg: "failed to read file",
		},
		{
			name:   "bad selection",
			opts:   decorateOptions{stdin: strings.NewReader("x"), selections: []string{"5"}, cursor: -1},
			errMsg: "expected from:to",
		},
		{
			name:   "bad range",
			opts:   decorateOptions{stdin: strings.NewReader("x"), bounds: "a:b", cursor: -1},
			errMsg: "bad start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.configPath = isolate(t)
			opts.out = &bytes.Buffer{}

			err := runDecorate(&opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("10:4")
	require.NoError(t, err)
	assert.Equal(t, decorate.Range{From: 4, To: 10}, r)

	r, err = ParseRange(" 3 : 7 ")
	require.NoError(t, err)
	assert.Equal(t, decorate.Range{From: 3, To: 7}, r)

	_, err = ParseRange("-1:4")
	assert.Error(t, err)
	_, err = ParseRange("4:x")
	assert.Error(t, err)
}

func TestSelection(t *testing.T) {
	sel, err := Selection(5, []string{"10:12"})
	require.NoError(t, err)
	assert.Equal(t, decorate.Cursor(5), sel.Cursor())
	assert.Len(t, sel.Ranges, 2)

	sel, err = Selection(-1, nil)
	require.NoError(t, err)
	assert.Empty(t, sel.Ranges)
}
