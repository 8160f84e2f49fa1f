package matcher

import (
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// boundaryMatcher filters a base Matcher's matches to those flanked by
// boundary characters, spec.md §4.5: "`.`, `-`, `_`, `/`, and the
// string ends" count as boundaries in word mode; line mode additionally
// requires the match to reach both ends of the haystack.
type boundaryMatcher struct {
	Matcher
	mode searchmodel.BoundaryMode
}

func wrapBoundary(m Matcher, mode searchmodel.BoundaryMode) Matcher {
	if mode == "" || mode == searchmodel.BoundaryNone {
		return m
	}
	return &boundaryMatcher{Matcher: m, mode: mode}
}

func isBoundaryByte(b byte) bool {
	switch b {
	case '.', '-', '_', '/':
		return true
	}
	return false
}

func (b *boundaryMatcher) qualifies(hay []byte, span Span) bool {
	if b.mode == searchmodel.BoundaryLine {
		return span.Start == 0 && span.End == len(hay)
	}
	before := span.Start == 0 || isBoundaryByte(hay[span.Start-1])
	after := span.End == len(hay) || isBoundaryByte(hay[span.End])
	return before && after
}

func (b *boundaryMatcher) IsMatch(hay []byte) bool {
	for _, span := range b.Matcher.FindAllIndex(hay) {
		if b.qualifies(hay, span) {
			return true
		}
	}
	return false
}

func (b *boundaryMatcher) FindAllIndex(hay []byte) []Span {
	all := b.Matcher.FindAllIndex(hay)
	out := all[:0]
	for _, span := range all {
		if b.qualifies(hay, span) {
			out = append(out, span)
		}
	}
	return out
}
