package preview

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/open-cli-collective/shelf-cli/pkg/decorate"
)

// ClassContent is the class of the document container.
const ClassContent = "cm-content"

// HTML renders src with the decorations in set as a DOM fragment. Text runs
// become text nodes, rendered blocks and embeds become their widget
// elements, and hidden ranges are dropped.
func (p *Printer) HTML(src []byte, set *decorate.Set) (string, error) {
	root := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr:     []html.Attribute{{Key: "class", Val: ClassContent}},
	}

	text := func(from, to int) {
		if from < to {
			root.AppendChild(&html.Node{Type: html.TextNode, Data: string(src[from:to])})
		}
	}

	pos := 0
	for _, d := range set.All() {
		if d.From < pos || d.To > len(src) {
			continue
		}
		text(pos, d.From)

		switch d.Kind {
		case decorate.KindReplace:
			if w, ok := d.Widget.(*decorate.BlockWidget); ok {
				node, err := w.DOM()
				if err != nil {
					return "", fmt.Errorf("failed to build block at %d: %w", d.From, err)
				}
				root.AppendChild(node)
			}
			pos = d.To
		case decorate.KindHide:
			pos = d.To
		case decorate.KindEmbed:
			if w, ok := d.Widget.(*decorate.EmbedWidget); ok {
				root.AppendChild(p.view(w.Src).DOM(p.HoldToOpen))
			}
			pos = d.From
		}
	}
	text(pos, len(src))

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}
