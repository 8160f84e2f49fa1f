// Package enumvisitor implements the file-enumeration visitor of
// spec.md §4.6: emit one FileList result per file the walker yields,
// applying only max-results limiting, cancellation, error capture, and
// metadata collection — no name or content matching at all. Grounded
// on original_source/src/search/manager/content_search.rs's plain
// "list files" search mode, the simplest of the three visitor shapes.
package enumvisitor

import (
	"github.com/standardbeagle/codesearch/internal/resultbuffer"
	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
	"github.com/standardbeagle/codesearch/internal/walker"
)

// Visitor implements walker.Visitor for plain file enumeration.
type Visitor struct {
	sctx       *searchcontext.Context
	buf        *resultbuffer.Buffer
	maxResults int
	collectMD  bool // metadata collection requested via sort_by, §4.7 step 6
}

// New builds an enumeration Visitor for one SearchSession's worker task.
func New(sctx *searchcontext.Context, first *resultbuffer.FirstResultSignal, cancel *resultbuffer.CancelSignal, opts searchmodel.SearchSessionOptions, maxResults int) *Visitor {
	return &Visitor{
		sctx:       sctx,
		buf:        resultbuffer.New(sctx, first, cancel),
		maxResults: maxResults,
		collectMD:  opts.SortBy != "",
	}
}

// Close flushes any remainder.
func (v *Visitor) Close() { v.buf.Close() }

// Visit implements walker.Visitor.
func (v *Visitor) Visit(e walker.Entry) walker.Signal {
	if v.buf.CheckCancellation() {
		return walker.Quit
	}
	if e.IsDir {
		return walker.Continue
	}

	if _, ok := v.sctx.ReserveMatch(v.maxResults); !ok {
		v.buf.Close()
		return walker.Quit
	}

	result := searchmodel.SearchResult{Path: e.Path, Type: searchmodel.ResultList}
	if v.collectMD && e.Info != nil {
		modified := e.Info.ModTime()
		result.Modified = &modified
	}
	v.buf.Emit(result)
	return walker.Continue
}

// VisitError implements walker.Visitor.
func (v *Visitor) VisitError(e walker.Error) {
	v.sctx.AppendError(searchmodel.SearchError{Path: e.Path, Message: e.Err.Error()})
}
