package matcher

import (
	"bytes"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// globMatcher wraps github.com/bmatcuk/doublestar/v4, the glob engine
// wired from the teacher (lci's pipeline_scanner.go/include_resolver.go
// both reach for it over filepath.Match whenever `**` is involved).
// doublestar.Match validates the pattern at call time rather than at
// compile time, so globMatcher pre-validates once in compileGlob and
// swallows the (already-checked) error on every subsequent call.
type globMatcher struct {
	pattern string
	fold    bool
}

func compileGlob(opt Options) (Matcher, error) {
	if _, err := doublestar.Match(opt.Pattern, "probe"); err != nil {
		return nil, err
	}
	return &globMatcher{pattern: opt.Pattern, fold: shouldFold(opt.Pattern, opt.CaseMode)}, nil
}

func (m *globMatcher) IsMatch(b []byte) bool {
	name := string(b)
	pattern := m.pattern
	if m.fold {
		name = strings.ToLower(name)
		pattern = strings.ToLower(pattern)
	}
	ok, _ := doublestar.Match(pattern, name)
	return ok
}

// FindAllIndex treats a glob as a whole-haystack match: the one span it
// returns covers the whole input. In content search, where a pattern
// inferred as a glob is applied line by line, a line matches only when
// the whole line matches the glob.
func (m *globMatcher) FindAllIndex(b []byte) []Span {
	if m.IsMatch(b) {
		return []Span{{Start: 0, End: len(b)}}
	}
	return nil
}

func (m *globMatcher) Dialect() searchmodel.Dialect { return searchmodel.DialectGlob }
func (m *globMatcher) Pattern() string              { return m.pattern }

// substringMatcher implements plain literal/substring matching, spec.md
// §4.1's third dialect and the literal_search forced mode.
type substringMatcher struct {
	pattern string
	folded  string
	fold    bool
}

func newSubstringMatcher(pattern string, caseMode searchmodel.CaseMode) *substringMatcher {
	fold := shouldFold(pattern, caseMode)
	folded := pattern
	if fold {
		folded = strings.ToLower(pattern)
	}
	return &substringMatcher{pattern: pattern, folded: folded, fold: fold}
}

func (m *substringMatcher) IsMatch(b []byte) bool {
	return len(m.FindAllIndex(b)) > 0
}

func (m *substringMatcher) FindAllIndex(b []byte) []Span {
	if m.pattern == "" {
		return nil
	}
	hay := b
	needle := []byte(m.pattern)
	if m.fold {
		hay = bytes.ToLower(b)
		needle = []byte(m.folded)
	}
	var spans []Span
	offset := 0
	for {
		idx := bytes.Index(hay[offset:], needle)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(needle)
		spans = append(spans, Span{Start: start, End: end})
		offset = end
	}
	return spans
}

func (m *substringMatcher) Dialect() searchmodel.Dialect { return searchmodel.DialectSubstring }
func (m *substringMatcher) Pattern() string              { return m.pattern }
