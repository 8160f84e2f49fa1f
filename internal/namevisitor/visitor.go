// Package namevisitor implements the file-name visitor of spec.md §4.5:
// for each directory entry, apply the compiled matcher to the final
// path component, honor early termination on an exact match, and
// increment both total_matches and total_files per match. Grounded on
// original_source/src/search/manager/content_search.rs's sibling
// file-name search mode (the same visitor/reservation shape, narrowed
// to a single is_match test instead of a line-oriented scan).
package namevisitor

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/codesearch/internal/matcher"
	"github.com/standardbeagle/codesearch/internal/resultbuffer"
	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
	"github.com/standardbeagle/codesearch/internal/walker"
)

// Visitor implements walker.Visitor for file-name search, spec.md §4.5.
type Visitor struct {
	ctx     context.Context
	m       matcher.Matcher
	sctx    *searchcontext.Context
	buf     *resultbuffer.Buffer
	opts    searchmodel.SearchSessionOptions
	maxR    int
	early   bool
	claimed int32 // atomic: the first-exact-match CAS flag
}

// New builds a file-name Visitor for one SearchSession's worker task.
func New(ctx context.Context, m matcher.Matcher, sctx *searchcontext.Context, first *resultbuffer.FirstResultSignal, cancel *resultbuffer.CancelSignal, opts searchmodel.SearchSessionOptions, maxResults int) *Visitor {
	return &Visitor{
		ctx:   ctx,
		m:     m,
		sctx:  sctx,
		buf:   resultbuffer.New(sctx, first, cancel),
		opts:  opts,
		maxR:  maxResults,
		early: opts.EarlyTermination,
	}
}

// Close flushes any remainder.
func (v *Visitor) Close() { v.buf.Close() }

// Visit implements walker.Visitor.
func (v *Visitor) Visit(e walker.Entry) walker.Signal {
	if v.buf.CheckCancellation() {
		return walker.Quit
	}

	name := filepath.Base(e.Path)
	if !v.m.IsMatch([]byte(name)) {
		return walker.Continue
	}

	if v.early && v.isExactMatch(name) {
		if !atomic.CompareAndSwapInt32(&v.claimed, 0, 1) {
			// Another worker already claimed the first exact match.
			return walker.Quit
		}
		if _, ok := v.sctx.ReserveMatch(v.maxR); ok {
			v.recordAndEmit(e)
		}
		v.buf.Flush()
		return walker.Quit
	}

	if _, ok := v.sctx.ReserveMatch(v.maxR); !ok {
		v.buf.Close()
		return walker.Quit
	}
	v.recordAndEmit(e)
	return walker.Continue
}

// recordAndEmit increments total_files (first observation per path) and
// emits the File result, matching spec.md §4.5 "each file match
// increments both total_matches and total_files".
func (v *Visitor) recordAndEmit(e walker.Entry) {
	// total_matches is already gated by ReserveMatch above; total_files
	// here is bookkeeping only, so the cap argument is informational.
	v.sctx.ReserveFileCountFirstSeen(e.Path, v.maxR, time.Now())
	v.buf.Emit(searchmodel.SearchResult{Path: e.Path, Type: searchmodel.ResultFile})
}

// isExactMatch reports whether name equals the pattern exactly, under
// the active case mode, matching spec.md §4.5's early-termination rule.
func (v *Visitor) isExactMatch(name string) bool {
	pattern := v.m.Pattern()
	if v.m.Dialect() != searchmodel.DialectRegex {
		if v.opts.CaseMode == searchmodel.CaseInsensitive ||
			(v.opts.CaseMode == searchmodel.CaseSmart && pattern == strings.ToLower(pattern)) {
			return strings.EqualFold(name, pattern)
		}
	}
	return name == pattern
}

// VisitError implements walker.Visitor.
func (v *Visitor) VisitError(e walker.Error) {
	v.sctx.AppendError(searchmodel.SearchError{Path: e.Path, Message: e.Err.Error()})
}
