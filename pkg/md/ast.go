// ast.go defines the syntax tree nodes added by the shelf extension.
package md

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
)

// TagKind classifies a {% ... %} tag.
type TagKind int

const (
	TagOpen        TagKind = iota // {% name attrs %}
	TagClose                      // {% /name %}
	TagSelfClosing                // {% name attrs /%}
	TagInvalid                    // unterminated or unparsable
)

func (k TagKind) String() string {
	switch k {
	case TagOpen:
		return "open"
	case TagClose:
		return "close"
	case TagSelfClosing:
		return "self-closing"
	default:
		return "invalid"
	}
}

// KindTag is the NodeKind of Tag.
var KindTag = ast.NewNodeKind("MarkdocTag")

// Tag is a block-level {% ... %} line in the editor syntax tree.
// From and To are byte offsets covering "{%" through "%}".
type Tag struct {
	ast.BaseBlock
	From    int
	To      int
	Name    string
	TagKind TagKind
	Attrs   map[string]string

	terminated bool
}

// NewTag returns an unclassified Tag starting at from.
func NewTag(from int) *Tag {
	return &Tag{From: from, To: from, TagKind: TagInvalid}
}

// Kind implements ast.Node.
func (n *Tag) Kind() ast.NodeKind { return KindTag }

// Dump implements ast.Node.
func (n *Tag) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
		"Tag":  n.TagKind.String(),
		"Span": fmt.Sprintf("%d-%d", n.From, n.To),
	}, nil)
}

// KindEmbed is the NodeKind of Embed.
var KindEmbed = ast.NewNodeKind("EmbedTagUrl")

// Embed is an inline ![[url]] reference. From and To cover the URL only.
type Embed struct {
	ast.BaseInline
	From int
	To   int
	URL  string
}

// Kind implements ast.Node.
func (n *Embed) Kind() ast.NodeKind { return KindEmbed }

// Dump implements ast.Node.
func (n *Embed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":  n.URL,
		"Span": fmt.Sprintf("%d-%d", n.From, n.To),
	}, nil)
}

// KindTagBlock is the NodeKind of TagBlock.
var KindTagBlock = ast.NewNodeKind("TagBlock")

// TagBlock is a paired tag container. It only exists in trees built for
// rendering; the editor tree keeps the flat Tag nodes.
type TagBlock struct {
	ast.BaseBlock
	Name        string
	Attrs       map[string]string
	SelfClosing bool
}

// Kind implements ast.Node.
func (n *TagBlock) Kind() ast.NodeKind { return KindTagBlock }

// Dump implements ast.Node.
func (n *TagBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

func newTagBlock(tag *Tag) *TagBlock {
	return &TagBlock{
		Name:        tag.Name,
		Attrs:       tag.Attrs,
		SelfClosing: tag.TagKind == TagSelfClosing,
	}
}
