// render.go provides the HTML renderer for tag containers and embeds.
package md

import (
	"log"
	"sort"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type tagRenderer struct {
	cfg *Config
}

func newTagRenderer(cfg *Config) renderer.NodeRenderer {
	return &tagRenderer{cfg: cfg}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *tagRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTagBlock, r.renderTagBlock)
	reg.Register(KindTag, r.renderTag)
	reg.Register(KindEmbed, r.renderEmbed)
}

func (r *tagRenderer) renderTagBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*TagBlock)
	tc, known := r.cfg.Lookup(n.Name)
	element := tc.Render
	if element == "" || !isValidElement(element) {
		element = "div"
	}

	if !entering {
		if !n.SelfClosing {
			_, _ = w.WriteString("</" + element + ">\n")
		}
		return ast.WalkContinue, nil
	}

	if !known {
		log.Printf("WARN: unknown tag: %s", n.Name)
	}

	_ = w.WriteByte('<')
	_, _ = w.WriteString(element)
	if !known {
		writeAttr(w, "data-tag", n.Name)
	}
	if tc.Class != "" {
		writeAttr(w, "class", tc.Class)
	}

	// Attributes sorted for stable output
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		if allowedAttr(tc, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeAttr(w, k, n.Attrs[k])
	}
	_ = w.WriteByte('>')

	if n.SelfClosing {
		_, _ = w.WriteString("</" + element + ">\n")
		return ast.WalkSkipChildren, nil
	}
	_ = w.WriteByte('\n')
	return ast.WalkContinue, nil
}

// renderTag handles tags left unpaired by the transformer. Open and close
// tags without a partner render nothing; malformed tags render as text.
func (r *tagRenderer) renderTag(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Tag)
	if !entering || n.TagKind != TagInvalid {
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<p>")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}

func (r *tagRenderer) renderEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Embed)
	_, _ = w.WriteString(`<img class="embed" src="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(n.URL), true)))
	_, _ = w.WriteString(`" alt="Image">`)
	return ast.WalkSkipChildren, nil
}

func writeAttr(w util.BufWriter, key, value string) {
	if !isValidElement(key) {
		return
	}
	_ = w.WriteByte(' ')
	_, _ = w.WriteString(key)
	_, _ = w.WriteString(`="`)
	_, _ = w.Write(util.EscapeHTML([]byte(value)))
	_ = w.WriteByte('"')
}

func allowedAttr(tc TagConfig, key string) bool {
	if len(tc.Attributes) == 0 {
		return true
	}
	for _, a := range tc.Attributes {
		if a == key {
			return true
		}
	}
	return false
}

// isValidElement accepts names usable as HTML element or attribute names.
func isValidElement(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isValidTagNameChar(r) {
			return false
		}
	}
	return true
}
