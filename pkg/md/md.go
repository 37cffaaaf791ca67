// Package md parses and renders the shelf markdown dialect: CommonMark with
// GFM tables, block-level {% tag %} lines, and ![[url]] embed references.
package md

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// treeParser builds editor syntax trees. Tags stay flat so callers can match
// them against the cursor.
var treeParser = goldmark.New(
	goldmark.WithExtensions(extension.Table, &syntax{}),
)

// Document is a parsed source and its syntax tree.
type Document struct {
	Source []byte
	Root   ast.Node
}

// Parse builds the editor syntax tree for src.
func Parse(src []byte) *Document {
	root := treeParser.Parser().Parse(text.NewReader(src))
	return &Document{Source: src, Root: root}
}

// Slice returns the source text in [from, to), clamped to the document.
func (d *Document) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(d.Source) {
		to = len(d.Source)
	}
	if from >= to {
		return ""
	}
	return string(d.Source[from:to])
}

// Renderer turns markup into HTML using a tag configuration.
type Renderer struct {
	cfg *Config
	md  goldmark.Markdown
}

// NewRenderer creates a renderer for cfg. A nil cfg uses DefaultConfig.
func NewRenderer(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Renderer{
		cfg: cfg,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, &syntax{cfg: cfg, render: true}),
		),
	}
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() *Config {
	return r.cfg
}

// Render converts markup to HTML.
func (r *Renderer) Render(src []byte) (string, error) {
	if len(src) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("failed to render markup: %w", err)
	}
	return buf.String(), nil
}

// Render converts markup to HTML with a one-off renderer for cfg.
func Render(src []byte, cfg *Config) (string, error) {
	return NewRenderer(cfg).Render(src)
}
