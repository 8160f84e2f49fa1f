package matcher

import (
	"regexp"
	"strings"

	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// regexSignals are lexical cues that make a pattern look like a regex,
// spec.md §4.1 "Dialect inference".
var (
	reEscapeClasses  = regexp.MustCompile(`\\[.dwsbnt\[\(\)\{\}]`)
	reQuantifiedGrp  = regexp.MustCompile(`(\]\+|\)\+|\]\*|\)\*|\]\?|\)\?)`)
	rePureDigitBrace = regexp.MustCompile(`\{\d+(,\d*)?\}`)
	reDotStar        = regexp.MustCompile(`\.[*+?]`)
)

// InferDialect classifies pattern per spec.md §4.1. It is only consulted
// when no explicit dialect is forced.
func InferDialect(pattern string) searchmodel.Dialect {
	if looksLikeRegex(pattern) {
		return searchmodel.DialectRegex
	}
	if looksLikeGlob(pattern) {
		return searchmodel.DialectGlob
	}
	return searchmodel.DialectSubstring
}

func looksLikeRegex(p string) bool {
	if strings.HasPrefix(p, "^") || strings.HasSuffix(p, "$") {
		return true
	}
	if reEscapeClasses.MatchString(p) {
		return true
	}
	if reDotStar.MatchString(p) {
		return true
	}
	if strings.Contains(p, "(?") {
		return true
	}
	if hasTopLevelAlternation(p) {
		return true
	}
	if reQuantifiedGrp.MatchString(p) {
		return true
	}
	if rePureDigitBrace.MatchString(p) {
		return true
	}
	return false
}

// hasTopLevelAlternation reports a `|` outside of a balanced `{...}`
// block, matching spec.md's "alternation | outside balanced {…}" rule
// (this excludes brace-expansion-only globs like "{a|b}" written in
// glob syntax, which this system doesn't otherwise use `|` inside).
func hasTopLevelAlternation(p string) bool {
	depth := 0
	for _, r := range p {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func looksLikeGlob(p string) bool {
	if strings.Contains(p, "**") {
		return true
	}
	if hasNonNumericBraceList(p) {
		return true
	}
	if containsUnescaped(p, '*', func(prev rune) bool { return prev != '.' }) {
		return true
	}
	if containsUnescaped(p, '?', func(prev rune) bool { return prev != '(' && prev != '.' }) {
		return true
	}
	if containsUnescaped(p, '[', func(rune) bool { return true }) {
		return true
	}
	return false
}

// hasNonNumericBraceList matches "{a,b}" but not "{1,5}".
func hasNonNumericBraceList(p string) bool {
	start := strings.IndexByte(p, '{')
	for start >= 0 {
		end := strings.IndexByte(p[start:], '}')
		if end < 0 {
			return false
		}
		body := p[start+1 : start+end]
		if strings.Contains(body, ",") && !isAllDigitsAndCommas(body) {
			return true
		}
		rest := p[start+end+1:]
		next := strings.IndexByte(rest, '{')
		if next < 0 {
			return false
		}
		start = start + end + 1 + next
	}
	return false
}

func isAllDigitsAndCommas(s string) bool {
	for _, r := range s {
		if r != ',' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// containsUnescaped reports whether ch appears in p, not preceded by a
// backslash, and where the preceding rune satisfies cond (or ch is at
// the start of the string).
func containsUnescaped(p string, ch byte, cond func(prev rune) bool) bool {
	runes := []rune(p)
	for i, r := range runes {
		if byte(r) != ch {
			continue
		}
		if i > 0 && runes[i-1] == '\\' {
			continue
		}
		if i == 0 || cond(runes[i-1]) {
			return true
		}
	}
	return false
}
