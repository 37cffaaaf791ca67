package embed

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSS classes applied to the widget elements.
const (
	ClassWrapper     = "cm-markdoc-embedWrapper"
	ClassImage       = "cm-markdoc-imageWidget"
	ClassFile        = "cm-markdoc-fileWidget"
	ClassFileTooltip = "cm-markdoc-fileWidgetTooltip"
	ClassFileIcon    = "cm-markdoc-fileWidgetIcon"
	ClassHoldToOpen  = "cm-markdoc-fileWidget-meta"
)

// DOM builds the element tree for the view. holdToOpen adds the "hold to
// open" affordance to file blocks.
func (v View) DOM(holdToOpen bool) *html.Node {
	wrapper := element(atom.Div, ClassWrapper)

	switch v.State {
	case StateImage:
		img := element(atom.Img, ClassImage)
		img.Attr = append(img.Attr,
			html.Attribute{Key: "src", Val: v.Src},
			html.Attribute{Key: "alt", Val: "Image"},
			html.Attribute{Key: "draggable", Val: "false"},
		)
		wrapper.AppendChild(img)

	case StateFile:
		class := ClassFile
		if holdToOpen {
			class += " " + ClassHoldToOpen
		}
		block := element(atom.Div, class)

		tooltip := element(atom.Div, ClassFileTooltip)
		tooltip.AppendChild(textNode("Click to open"))
		block.AppendChild(tooltip)

		icon := element(atom.Div, ClassFileIcon)
		icon.Attr = append(icon.Attr, html.Attribute{Key: "data-icon", Val: string(v.Icon)})
		block.AppendChild(icon)

		label := element(atom.Span, "")
		label.AppendChild(textNode(v.Label()))
		block.AppendChild(label)

		wrapper.AppendChild(block)

	default:
		wrapper.AppendChild(textNode("Loading..."))
	}

	return wrapper
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
