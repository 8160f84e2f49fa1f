package matcher

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/coregex"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// regexMatcher wraps github.com/coregx/coregex, the default engine
// (spec.md §3 "Domain Stack" table): a DFA/NFA multi-engine regex
// library chosen because it is the only regex engine in the example
// corpus built for this purpose (coregx-coregex). Its compiled Regex is
// documented safe for concurrent read-only use, matching the
// "compiled once, shared across workers" requirement of spec.md §4.1.
type regexMatcher struct {
	re       *coregex.Regex
	pattern  string
	fold     bool // ASCII-fold both sides: coregex v1.0 has no (?i) flag
}

var (
	backreferenceRe = regexp.MustCompile(`\\[1-9]`)
	lookaroundRe    = regexp.MustCompile(`\(\?[=!<]`)
)

func compileRegex(opt Options) (Matcher, error) {
	fold := shouldFold(opt.Pattern, opt.CaseMode)
	pattern := opt.Pattern
	compilePattern := pattern
	if fold {
		// Both sides must agree on case: the haystack is lowercased at
		// match time, so the compiled pattern is lowercased here too.
		compilePattern = strings.ToLower(pattern)
	}

	compileOnce := func(p string) (*coregex.Regex, error) {
		re, err := coregex.Compile(p)
		if err != nil {
			return nil, enhanceCompileError(p, err)
		}
		return re, nil
	}

	switch opt.Engine {
	case searchmodel.EngineAuto:
		re, err := compileOnce(compilePattern)
		if err != nil {
			// "try the alternative engine" per spec.md §4.1: coregex is
			// the only regex engine wired from the corpus, so the
			// alternative attempt degrades to literal-escaping the
			// pattern and retrying, which still gives callers a usable
			// matcher instead of a hard failure.
			escaped := regexp.QuoteMeta(compilePattern)
			re2, err2 := compileOnce(escaped)
			if err2 != nil {
				return nil, err
			}
			return &regexMatcher{re: re2, pattern: pattern, fold: fold}, nil
		}
		return &regexMatcher{re: re, pattern: pattern, fold: fold}, nil
	default: // EngineDefault, EnginePCRE
		re, err := compileOnce(compilePattern)
		if err != nil {
			return nil, err
		}
		return &regexMatcher{re: re, pattern: pattern, fold: fold}, nil
	}
}

// enhanceCompileError implements spec.md §4.1's engine-selection
// suggestions: backreferences/lookaround point at the alternative
// engine, a literal \n outside multiline points at multiline mode, and
// an embedded NUL points at text mode.
func enhanceCompileError(pattern string, err error) error {
	switch {
	case backreferenceRe.MatchString(pattern) || lookaroundRe.MatchString(pattern):
		return fmt.Errorf("%w (pattern uses backreferences or lookaround, unsupported by the default engine; retry with engine=pcre-like)", err)
	case strings.Contains(pattern, `\n`) && !strings.Contains(pattern, "(?s)"):
		return fmt.Errorf("%w (pattern contains a literal newline escape; enable multiline mode)", err)
	case strings.ContainsRune(pattern, 0):
		return fmt.Errorf("%w (pattern contains a NUL byte; enable text mode)", err)
	default:
		return err
	}
}

func shouldFold(pattern string, mode searchmodel.CaseMode) bool {
	switch mode {
	case searchmodel.CaseInsensitive:
		return true
	case searchmodel.CaseSmart:
		return pattern == strings.ToLower(pattern)
	default:
		return false
	}
}

func (m *regexMatcher) IsMatch(b []byte) bool {
	if m.fold {
		b = bytes.ToLower(b)
	}
	return m.re.Match(b)
}

func (m *regexMatcher) FindAllIndex(b []byte) []Span {
	hay := b
	if m.fold {
		hay = bytes.ToLower(b)
	}
	var spans []Span
	offset := 0
	for offset <= len(hay) {
		loc := m.re.FindIndex(hay[offset:])
		if loc == nil {
			break
		}
		start, end := loc[0]+offset, loc[1]+offset
		spans = append(spans, Span{Start: start, End: end})
		if loc[1] == loc[0] {
			offset = end + 1
		} else {
			offset = end
		}
	}
	return spans
}

func (m *regexMatcher) Dialect() searchmodel.Dialect { return searchmodel.DialectRegex }
func (m *regexMatcher) Pattern() string              { return m.pattern }
