package printerfeed

import (
	"bytes"
	"sort"

	"github.com/standardbeagle/codesearch/internal/matcher"
)

// Options configures Scan, collecting the spec.md §4.4 step 4 inputs.
type Options struct {
	Before      int
	After       int
	Multiline   bool
	InvertMatch bool
	// MaxMatches stops scanning once this many match events have been
	// emitted (0 = unlimited), implementing §4.4's files-only
	// per-file max-count-1 optimization.
	MaxMatches int
}

// Scan runs m over data line-by-line (or, in multiline mode, over the
// whole buffer at once) and returns the begin/match/context/end event
// stream spec.md §4.4 step 5 consumes.
func Scan(data []byte, m matcher.Matcher, opt Options) []Event {
	events := []Event{{Kind: KindBegin}}
	if opt.Multiline {
		events = append(events, scanMultiline(data, m, opt)...)
	} else {
		events = append(events, scanLines(data, m, opt)...)
	}
	events = append(events, Event{Kind: KindEnd})
	return events
}

type line struct {
	number int
	text   string
}

func splitLines(data []byte) []line {
	var out []line
	n := 1
	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			out = append(out, line{number: n, text: string(data)})
			break
		}
		out = append(out, line{number: n, text: string(data[:idx])})
		data = data[idx+1:]
		n++
	}
	return out
}

func scanLines(data []byte, m matcher.Matcher, opt Options) []Event {
	lines := splitLines(data)
	matchedSpans := make(map[int][]matcher.Span, len(lines))
	matchedSet := make(map[int]bool)

	for _, l := range lines {
		spans := m.FindAllIndex([]byte(l.text))
		isMatch := len(spans) > 0
		if opt.InvertMatch {
			isMatch = !isMatch
		}
		if isMatch {
			matchedSet[l.number] = true
			if !opt.InvertMatch {
				matchedSpans[l.number] = spans
			}
			if opt.MaxMatches > 0 && len(matchedSet) >= opt.MaxMatches {
				break
			}
		}
	}

	kept := make(map[int]bool, len(matchedSet)*2)
	for n := range matchedSet {
		for d := -opt.Before; d <= opt.After; d++ {
			ln := n + d
			if ln >= 1 {
				kept[ln] = true
			}
		}
	}

	var order []int
	for n := range kept {
		order = append(order, n)
	}
	sort.Ints(order)

	byNumber := make(map[int]line, len(lines))
	for _, l := range lines {
		byNumber[l.number] = l
	}

	var events []Event
	for _, n := range order {
		l, ok := byNumber[n]
		if !ok {
			continue
		}
		if matchedSet[n] {
			events = append(events, Event{
				Kind:       KindMatch,
				LineNumber: n,
				Text:       l.text,
				Submatches: toSubmatches(l.text, matchedSpans[n]),
			})
		} else {
			events = append(events, Event{Kind: KindContext, LineNumber: n, Text: l.text})
		}
	}
	return events
}

func scanMultiline(data []byte, m matcher.Matcher, opt Options) []Event {
	spans := m.FindAllIndex(data)
	var events []Event
	for _, sp := range spans {
		if opt.MaxMatches > 0 && len(events) >= opt.MaxMatches {
			break
		}
		lineNum := 1 + bytes.Count(data[:sp.Start], []byte{'\n'})
		text := string(data[sp.Start:sp.End])
		events = append(events, Event{
			Kind:       KindMatch,
			LineNumber: lineNum,
			Text:       text,
			Submatches: []Submatch{{Text: text, Start: 0, End: len(text)}},
		})
	}
	return events
}

func toSubmatches(lineText string, spans []matcher.Span) []Submatch {
	out := make([]Submatch, 0, len(spans))
	for _, sp := range spans {
		out = append(out, Submatch{Text: lineText[sp.Start:sp.End], Start: sp.Start, End: sp.End})
	}
	return out
}
