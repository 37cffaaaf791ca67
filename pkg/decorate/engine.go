package decorate

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

// Engine derives decoration sets from editor states.
type Engine struct {
	renderer *md.Renderer
}

// NewEngine creates an engine rendering blocks with cfg. A nil cfg uses
// md.DefaultConfig.
func NewEngine(cfg *md.Config) *Engine {
	return &Engine{renderer: md.NewRenderer(cfg)}
}

// Renderer returns the markup renderer used for block widgets.
func (e *Engine) Renderer() *md.Renderer {
	return e.renderer
}

// Compute decorates the whole document.
func (e *Engine) Compute(state *State) *Set {
	return NewSet(e.decorate(state, nil))
}

// ComputeRange decorates only the nodes that intersect [from, to].
func (e *Engine) ComputeRange(state *State, from, to int) *Set {
	bounds := NewRange(from, to)
	return NewSet(e.decorate(state, &bounds))
}

func (e *Engine) decorate(state *State, bounds *Range) []Decoration {
	var decos []Decoration
	var matcher TagMatcher

	doc := state.Doc
	cursor := state.Selection.Cursor()

	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *md.Embed:
			if bounds != nil && !bounds.Touches(node.From, node.To) {
				return ast.WalkSkipChildren, nil
			}
			decos = append(decos, embedDecorations(state, node, cursor)...)
			return ast.WalkSkipChildren, nil
		case *md.Tag, *ast.Blockquote, *east.Table:
		default:
			return ast.WalkContinue, nil
		}

		from, to, ok := md.Span(n, doc.Source)
		if !ok {
			return ast.WalkContinue, nil
		}
		if bounds != nil && !bounds.Touches(from, to) {
			return ast.WalkSkipChildren, nil
		}

		// Leave raw markup visible while it is being edited.
		if !state.Preview && (cursor.Within(from, to) || state.Selection.Touches(from, to)) {
			return ast.WalkSkipChildren, nil
		}

		if tag, ok := n.(*md.Tag); ok {
			matcher.Feed(tag)
			return ast.WalkSkipChildren, nil
		}

		decos = append(decos, e.replace(doc, from, to))
		return ast.WalkContinue, nil
	})

	for _, span := range matcher.Spans() {
		if !state.Preview && cursor.Within(span.From, span.To) {
			continue
		}
		decos = append(decos, e.replace(doc, span.From, span.To))
	}

	return decos
}

func (e *Engine) replace(doc *md.Document, from, to int) Decoration {
	return Decoration{
		From:   from,
		To:     to,
		Kind:   KindReplace,
		Block:  true,
		Widget: NewBlockWidget(doc.Slice(from, to), e.renderer),
	}
}

// embedDecorations returns the widget after the reference and, unless the
// reference is being edited, a mark hiding its delimiters.
func embedDecorations(state *State, node *md.Embed, cursor Range) []Decoration {
	ext := Range{From: node.From - md.EmbedPrefixLen, To: node.To + md.EmbedSuffixLen}

	decos := []Decoration{{
		From:   ext.To,
		To:     ext.To,
		Kind:   KindEmbed,
		Block:  true,
		Side:   1,
		Widget: &EmbedWidget{Src: node.URL},
	}}

	editing := cursor.Within(node.From, node.To) || state.Selection.Touches(ext.From, ext.To)
	if state.Preview || !editing {
		decos = append(decos, Decoration{
			From:  ext.From,
			To:    ext.To,
			Kind:  KindHide,
			Class: ClassHidden,
		})
	}
	return decos
}
