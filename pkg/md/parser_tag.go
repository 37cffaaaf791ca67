// parser_tag.go teaches goldmark the {% tag %} lines and ![[url]] embeds.
package md

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	tagOpenDelim    = []byte("{%")
	tagCloseDelim   = []byte("%}")
	embedOpenDelim  = []byte("![[")
	embedCloseDelim = []byte("]]")
)

// Delimiter widths around an embed URL.
const (
	EmbedPrefixLen = 3 // "![["
	EmbedSuffixLen = 2 // "]]"
)

type tagBlockParser struct{}

func (p *tagBlockParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *tagBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	indent := util.TrimLeftSpaceLength(line)
	if indent > 3 || !bytes.HasPrefix(line[indent:], tagOpenDelim) {
		return nil, parser.NoChildren
	}

	node := NewTag(segment.Start + indent)
	idx := bytes.Index(line[indent+len(tagOpenDelim):], tagCloseDelim)
	if idx < 0 {
		// Tag continues on the next line.
		node.Lines().Append(segment)
		node.To = segment.Start + len(util.TrimRightSpace(line))
		reader.Advance(segment.Len() - newlineLen(line))
		return node, parser.NoChildren
	}

	end := indent + len(tagOpenDelim) + idx + len(tagCloseDelim)
	if !util.IsBlank(line[end:]) {
		// Trailing text makes this an inline tag inside a paragraph.
		return nil, parser.NoChildren
	}
	node.Lines().Append(text.NewSegment(node.From, segment.Start+end))
	node.To = segment.Start + end
	node.terminated = true
	reader.Advance(segment.Len() - newlineLen(line))
	return node, parser.NoChildren
}

func (p *tagBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	tag := node.(*Tag)
	if tag.terminated {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close
	}

	idx := bytes.Index(line, tagCloseDelim)
	if idx < 0 {
		tag.Lines().Append(segment)
		tag.To = segment.Start + len(util.TrimRightSpace(line))
		reader.AdvanceLine()
		return parser.Continue | parser.NoChildren
	}

	end := idx + len(tagCloseDelim)
	tag.Lines().Append(text.NewSegment(segment.Start, segment.Start+end))
	tag.To = segment.Start + end
	tag.terminated = true
	reader.Advance(segment.Len() - newlineLen(line))
	return parser.Close
}

func (p *tagBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	tag := node.(*Tag)
	if !tag.terminated {
		tag.TagKind = TagInvalid
		return
	}

	token, err := TokenizeTag(string(reader.Source()[tag.From:tag.To]))
	if err != nil {
		tag.TagKind = TagInvalid
		return
	}
	tag.Name = token.Name
	tag.TagKind = token.Kind
	tag.Attrs = token.Attrs
}

func (p *tagBlockParser) CanInterruptParagraph() bool {
	return true
}

func (p *tagBlockParser) CanAcceptIndentedLine() bool {
	return false
}

func newlineLen(line []byte) int {
	switch {
	case bytes.HasSuffix(line, []byte("\r\n")):
		return 2
	case bytes.HasSuffix(line, []byte("\n")):
		return 1
	default:
		return 0
	}
}

type embedParser struct{}

func (p *embedParser) Trigger() []byte {
	return []byte{'!'}
}

func (p *embedParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if !bytes.HasPrefix(line, embedOpenDelim) {
		return nil
	}
	rest := line[len(embedOpenDelim):]
	end := bytes.Index(rest, embedCloseDelim)
	if end < 0 || bytes.IndexByte(rest[:end], '\n') >= 0 {
		return nil
	}
	url := bytes.TrimSpace(rest[:end])
	if len(url) == 0 {
		return nil
	}

	from := segment.Start + len(embedOpenDelim)
	node := &Embed{
		From: from,
		To:   from + end,
		URL:  string(url),
	}
	block.Advance(len(embedOpenDelim) + end + len(embedCloseDelim))
	return node
}

// tagPairer folds sibling open/close Tag nodes into TagBlock containers.
type tagPairer struct{}

func (t *tagPairer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	pairTags(doc)
}

func pairTags(parent ast.Node) {
	var stack []*Tag
	for c := parent.FirstChild(); c != nil; {
		next := c.NextSibling()
		tag, ok := c.(*Tag)
		if !ok {
			pairTags(c)
			c = next
			continue
		}

		switch tag.TagKind {
		case TagOpen:
			stack = append(stack, tag)
		case TagSelfClosing:
			parent.ReplaceChild(parent, tag, newTagBlock(tag))
		case TagClose:
			if len(stack) == 0 {
				break
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			block := newTagBlock(open)
			for n := open.NextSibling(); n != nil && n != ast.Node(tag); {
				following := n.NextSibling()
				block.AppendChild(block, n)
				n = following
			}
			parent.ReplaceChild(parent, open, block)
			parent.RemoveChild(parent, tag)
		}
		c = next
	}
}

// syntax registers the shelf parsers and, when cfg is set, the tag renderer.
type syntax struct {
	cfg    *Config
	render bool
}

// Extend implements goldmark.Extender.
func (e *syntax) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&tagBlockParser{}, 550)),
		parser.WithInlineParsers(util.Prioritized(&embedParser{}, 150)),
	)
	if !e.render {
		return
	}
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(&tagPairer{}, 100)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(newTagRenderer(e.cfg), 500)))
}
