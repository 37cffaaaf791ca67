package decorate

import (
	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

// TagMatcher pairs {% tag %} nodes in document order. The stack always holds
// the start offsets of the currently open, unmatched tags, innermost last.
type TagMatcher struct {
	stack []int
	spans []Range
}

// Feed records one tag. A close tag pops the innermost open tag and emits the
// span from its start to the close tag's end; a self-closing tag emits its own
// span. A close tag with nothing open is ignored.
func (m *TagMatcher) Feed(tag *md.Tag) {
	switch tag.TagKind {
	case md.TagOpen:
		m.stack = append(m.stack, tag.From)
	case md.TagSelfClosing:
		m.spans = append(m.spans, Range{From: tag.From, To: tag.To})
	case md.TagClose:
		if len(m.stack) == 0 {
			return
		}
		start := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		m.spans = append(m.spans, Range{From: start, To: tag.To})
	}
}

// Open returns the start offsets of the unmatched open tags.
func (m *TagMatcher) Open() []int {
	out := make([]int, len(m.stack))
	copy(out, m.stack)
	return out
}

// Spans returns the matched spans in the order they closed.
func (m *TagMatcher) Spans() []Range {
	out := make([]Range, len(m.spans))
	copy(out, m.spans)
	return out
}
