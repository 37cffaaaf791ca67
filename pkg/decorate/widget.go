package decorate

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

// ClassRenderBlock is the class of rendered block containers.
const ClassRenderBlock = "cm-markdoc-renderBlock"

// BlockWidget shows a region of markup rendered to HTML. Rendering happens
// once, at construction.
type BlockWidget struct {
	Source string
	HTML   string
	Err    error
}

// NewBlockWidget renders source with r.
func NewBlockWidget(source string, r *md.Renderer) *BlockWidget {
	rendered, err := r.Render([]byte(source))
	return &BlockWidget{Source: source, HTML: rendered, Err: err}
}

// Eq compares the rendered source text.
func (w *BlockWidget) Eq(other Widget) bool {
	o, ok := other.(*BlockWidget)
	return ok && o.Source == w.Source
}

// DOM returns a non-editable container holding the rendered markup.
func (w *BlockWidget) DOM() (*html.Node, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "contenteditable", Val: "false"},
			{Key: "class", Val: ClassRenderBlock},
		},
	}

	children, err := html.ParseFragment(strings.NewReader(w.HTML), container)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		container.AppendChild(child)
	}
	return container, nil
}

// Text returns the rendered block as plain text for terminal hosts.
func (w *BlockWidget) Text() string {
	if w.Err != nil || w.HTML == "" {
		return w.Source
	}
	text, err := md.ToText(w.HTML)
	if err != nil {
		return w.Source
	}
	return text
}

// EmbedWidget marks where the preview of an embedded URL is drawn. Hosts
// mount an embed.Widget for it through the Session.
type EmbedWidget struct {
	Src string
}

// Eq compares the embedded URL.
func (w *EmbedWidget) Eq(other Widget) bool {
	o, ok := other.(*EmbedWidget)
	return ok && o.Src == w.Src
}
