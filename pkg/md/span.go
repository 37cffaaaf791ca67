package md

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Span returns the source range [from, to) covered by node. Block spans are
// widened to whole lines so container markers ("> ", table pipes) are
// included. ok is false when the node carries no source positions.
func Span(node ast.Node, src []byte) (from, to int, ok bool) {
	switch n := node.(type) {
	case *Tag:
		return n.From, n.To, true
	case *Embed:
		return n.From, n.To, true
	}

	from, to = -1, -1
	include := func(start, stop int) {
		if start >= stop {
			return
		}
		if from < 0 || start < from {
			from = start
		}
		if stop > to {
			to = stop
		}
	}

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *Tag:
			include(v.From, v.To)
			return ast.WalkSkipChildren, nil
		case *Embed:
			include(v.From-EmbedPrefixLen, v.To+EmbedSuffixLen)
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			include(v.Segment.Start, v.Segment.Stop)
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				include(seg.Start, seg.Stop)
			}
		}
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				include(seg.Start, seg.Stop)
			}
		}
		return ast.WalkContinue, nil
	})

	if from < 0 {
		return 0, 0, false
	}
	if from > len(src) {
		from = len(src)
	}
	if to > len(src) {
		to = len(src)
	}
	for to > from && (src[to-1] == '\n' || src[to-1] == '\r') {
		to--
	}

	if node.Type() == ast.TypeBlock {
		from = lineStart(src, from)
		to = lineEnd(src, to)
	}
	if _, isTable := node.(*east.Table); isTable {
		// The delimiter row has no text segments; it always follows the header.
		if end := lineEnd(src, nextLine(src, lineEnd(src, from))); end > to {
			to = end
		}
	}
	return from, to, true
}

// nextLine returns the start of the line after the line break at pos.
func nextLine(src []byte, pos int) int {
	if pos < len(src) && src[pos] == '\r' {
		pos++
	}
	if pos < len(src) && src[pos] == '\n' {
		pos++
	}
	return pos
}

func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

func lineEnd(src []byte, pos int) int {
	for pos < len(src) && src[pos] != '\n' && src[pos] != '\r' {
		pos++
	}
	return pos
}
