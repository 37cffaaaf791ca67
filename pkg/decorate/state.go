// Package decorate computes the decorations that overlay rendered blocks and
// embed widgets on markdown source while it is being edited.
//
// Decorations are derived from scratch for every state: tables, blockquotes
// and matched {% tag %} spans are replaced by rendered markup unless the
// cursor or a selection touches them, and ![[url]] references get an embed
// widget with their delimiters hidden.
package decorate

import (
	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

// Range is a half-open byte range. From <= To.
type Range struct {
	From int
	To   int
}

// NewRange builds a normalized range from an anchor and a head.
func NewRange(anchor, head int) Range {
	if head < anchor {
		anchor, head = head, anchor
	}
	return Range{From: anchor, To: head}
}

// Cursor is an empty range at pos.
func Cursor(pos int) Range {
	return Range{From: pos, To: pos}
}

// Empty reports whether the range is a bare cursor.
func (r Range) Empty() bool {
	return r.From == r.To
}

// Within reports whether r lies inside [from, to], bounds included.
func (r Range) Within(from, to int) bool {
	return r.From >= from && r.To <= to
}

// Touches reports whether r intersects [from, to], bounds included.
func (r Range) Touches(from, to int) bool {
	return to >= r.From && from <= r.To
}

// Selection is the set of selected ranges. The first range is the cursor.
type Selection struct {
	Ranges []Range
}

// Select returns a selection of the given ranges.
func Select(ranges ...Range) Selection {
	return Selection{Ranges: ranges}
}

var noCursor = Range{From: -1, To: -1}

// Cursor returns the first range, or a range outside any document when the
// selection is empty.
func (s Selection) Cursor() Range {
	if len(s.Ranges) == 0 {
		return noCursor
	}
	return s.Ranges[0]
}

// Touches reports whether any range intersects [from, to].
func (s Selection) Touches(from, to int) bool {
	for _, r := range s.Ranges {
		if r.Touches(from, to) {
			return true
		}
	}
	return false
}

// State is an editor snapshot: the parsed document, the selection, and
// whether preview mode forces every block to render.
type State struct {
	Doc       *md.Document
	Selection Selection
	Preview   bool
}

// NewState parses src and captures the selection.
func NewState(src []byte, sel Selection, preview bool) *State {
	return &State{
		Doc:       md.Parse(src),
		Selection: sel,
		Preview:   preview,
	}
}

// WithSelection returns a copy of the state with a new selection. The
// syntax tree is shared.
func (s *State) WithSelection(sel Selection) *State {
	next := *s
	next.Selection = sel
	return &next
}
