package decorate

import (
	"sort"
	"strings"
)

// Kind is the render action of a decoration.
type Kind int

const (
	KindReplace Kind = iota // replace the range with rendered markup
	KindHide                // hide delimiter syntax
	KindEmbed               // insert an embed widget
)

func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace-with-rendered-markup"
	case KindHide:
		return "hide-delimiter"
	case KindEmbed:
		return "replace-with-embed-widget"
	default:
		return "unknown"
	}
}

// ClassHidden marks hidden delimiter ranges.
const ClassHidden = "cm-markdoc-hidden"

// Widget is content drawn in place of, or next to, document text.
type Widget interface {
	// Eq reports whether other would draw the same content, so a host can
	// keep the existing element.
	Eq(other Widget) bool
}

// Decoration is one instruction for the host rendering layer. Embed
// decorations are points (From == To) drawn after the position.
type Decoration struct {
	From   int
	To     int
	Kind   Kind
	Block  bool
	Side   int
	Class  string
	Widget Widget
}

// Point reports whether the decoration covers no text.
func (d Decoration) Point() bool {
	return d.From == d.To
}

// Set is an ordered, non-overlapping collection of decorations.
type Set struct {
	items []Decoration
}

// NewSet orders decorations by position and drops any that fall inside an
// earlier range, so an enclosing block wins over what it contains.
func NewSet(decos []Decoration) *Set {
	sorted := make([]Decoration, len(decos))
	copy(sorted, decos)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.Point() != b.Point() {
			return a.Point()
		}
		return a.To > b.To
	})

	items := make([]Decoration, 0, len(sorted))
	end := 0
	for _, d := range sorted {
		if d.From < end {
			continue
		}
		items = append(items, d)
		if d.To > end {
			end = d.To
		}
	}
	return &Set{items: items}
}

// Len returns the number of decorations.
func (s *Set) Len() int {
	return len(s.items)
}

// All returns the decorations in order.
func (s *Set) All() []Decoration {
	out := make([]Decoration, len(s.items))
	copy(out, s.items)
	return out
}

// OfKind returns the decorations of one kind, in order.
func (s *Set) OfKind(kind Kind) []Decoration {
	var out []Decoration
	for _, d := range s.items {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Apply lays the decorations over src for hosts that draw text. Replaced
// ranges and embed widgets are drawn by render; hidden ranges are dropped.
func (s *Set) Apply(src []byte, render func(Decoration) string) string {
	var sb strings.Builder
	pos := 0
	for _, d := range s.items {
		if d.From < pos || d.To > len(src) {
			continue
		}
		sb.Write(src[pos:d.From])
		switch d.Kind {
		case KindReplace:
			sb.WriteString(render(d))
			pos = d.To
		case KindHide:
			pos = d.To
		case KindEmbed:
			sb.WriteString(render(d))
			pos = d.From
		}
	}
	sb.Write(src[pos:])
	return sb.String()
}
