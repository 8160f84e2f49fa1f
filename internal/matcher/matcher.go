// Package matcher compiles a pattern string plus dialect/case/boundary/
// engine options into a Matcher, per spec.md §4.1. Compilation happens
// once per session; the resulting Matcher is shared read-only across
// every worker goroutine the walker spawns.
package matcher

import (
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// Span is a [start,end) byte range within a haystack.
type Span struct {
	Start, End int
}

// Matcher is the capability object spec.md §4.1 describes: a cheap
// is-match test for file-name visiting, and a richer find-all for
// content visiting. Implementations must be safe for concurrent use by
// multiple goroutines — they hold no per-call mutable state.
type Matcher interface {
	// IsMatch reports whether b matches anywhere (file-name mode).
	IsMatch(b []byte) bool
	// FindAllIndex returns every non-overlapping match span in b, in
	// order. Content visitors call this once per line (or once for the
	// whole buffer in multiline mode).
	FindAllIndex(b []byte) []Span
	// Dialect reports which dialect this matcher was compiled under,
	// for diagnostics and for the exact-match check in the file-name
	// visitor's early-termination rule (spec.md §4.5).
	Dialect() searchmodel.Dialect
	// Pattern returns the original pattern string, unmodified by case
	// folding, for exact-match comparisons.
	Pattern() string
}

// Options configures Compile, collecting the spec.md §4.1 inputs.
type Options struct {
	Pattern       string
	LiteralSearch bool
	ForceDialect  searchmodel.Dialect // empty = infer
	CaseMode      searchmodel.CaseMode
	BoundaryMode  searchmodel.BoundaryMode
	Engine        searchmodel.Engine
}

// Compile builds a Matcher per spec.md §4.1's dialect inference and
// engine-selection rules. When the dialect was inferred, a regex or glob
// pattern that fails to compile falls back to a substring matcher, so
// an inference failure never fails the search. An explicitly forced
// regex or glob dialect that fails to compile returns the error, since
// that is configuration, not inference.
func Compile(opt Options) (Matcher, error) {
	dialect := opt.ForceDialect
	if opt.LiteralSearch {
		dialect = searchmodel.DialectSubstring
	} else if dialect == "" {
		dialect = InferDialect(opt.Pattern)
	}

	var base Matcher
	var err error
	switch dialect {
	case searchmodel.DialectRegex:
		base, err = compileRegex(opt)
		if err != nil {
			if opt.ForceDialect == searchmodel.DialectRegex {
				return nil, err
			}
			// Inference guessed wrong; fall back to substring rather
			// than fail the whole search (spec.md §4.1).
			base = newSubstringMatcher(opt.Pattern, opt.CaseMode)
			dialect = searchmodel.DialectSubstring
		}
	case searchmodel.DialectGlob:
		base, err = compileGlob(opt)
		if err != nil {
			if opt.ForceDialect == searchmodel.DialectGlob {
				return nil, err
			}
			base = newSubstringMatcher(opt.Pattern, opt.CaseMode)
		}
	default:
		base = newSubstringMatcher(opt.Pattern, opt.CaseMode)
	}

	return wrapBoundary(base, opt.BoundaryMode), nil
}
