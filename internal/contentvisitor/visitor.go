// Package contentvisitor implements the per-file content-search
// pipeline of spec.md §4.4: source acquisition (plain read,
// decompression, or preprocessor), binary detection, encoding,
// line-oriented matching via internal/printerfeed, and routing matched
// events into internal/resultbuffer's reservation protocol according to
// the session's output mode. Grounded on
// original_source/src/search/manager/content_search.rs's
// ContentSearchVisitor, generalized from a ripgrep-subprocess-plus-JSON
// pipeline into one built entirely on this repo's own
// internal/matcher and internal/printerfeed.
package contentvisitor

import (
	"context"
	"os"
	"time"

	"github.com/standardbeagle/codesearch/internal/matcher"
	"github.com/standardbeagle/codesearch/internal/printerfeed"
	"github.com/standardbeagle/codesearch/internal/resultbuffer"
	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
	"github.com/standardbeagle/codesearch/internal/walker"
)

// Visitor implements walker.Visitor for content search, spec.md §4.4.
type Visitor struct {
	ctx        context.Context
	matcher    matcher.Matcher
	sctx       *searchcontext.Context
	buf        *resultbuffer.Buffer
	opts       searchmodel.SearchSessionOptions
	maxResults int
}

// New builds a content Visitor for one SearchSession's worker task.
func New(ctx context.Context, m matcher.Matcher, sctx *searchcontext.Context, first *resultbuffer.FirstResultSignal, cancel *resultbuffer.CancelSignal, opts searchmodel.SearchSessionOptions, maxResults int) *Visitor {
	return &Visitor{
		ctx:        ctx,
		matcher:    m,
		sctx:       sctx,
		buf:        resultbuffer.New(sctx, first, cancel),
		opts:       opts,
		maxResults: maxResults,
	}
}

// Close flushes any remainder and should be called once the walk ends.
func (v *Visitor) Close() { v.buf.Close() }

// Visit implements walker.Visitor.
func (v *Visitor) Visit(e walker.Entry) walker.Signal {
	if v.buf.CheckCancellation() {
		return walker.Quit
	}

	select {
	case <-v.ctx.Done():
		v.buf.Flush()
		v.sctx.MarkIncomplete()
		return walker.Quit
	default:
	}

	data, err := readSource(v.ctx, e.Path, v.opts.Preprocessor, v.opts.PreprocessorGlobs)
	if err != nil {
		v.sctx.AppendError(searchmodel.SearchError{
			Path:     e.Path,
			Message:  err.Error(),
			Category: categorizeError(err),
		})
		return walker.Continue
	}

	isBinary, suppressed := false, false
	if v.opts.BinaryMode != searchmodel.BinaryText && containsNUL(data) {
		isBinary = true
		switch v.opts.BinaryMode {
		case searchmodel.BinarySearchAndSuppress:
			suppressed = true
		default: // auto
			return walker.Continue
		}
	}

	decoded, err := decodeText(data, v.opts.Encoding)
	if err != nil {
		v.sctx.AppendError(searchmodel.SearchError{
			Path:     e.Path,
			Message:  err.Error(),
			Category: searchmodel.ErrorIO,
		})
		return walker.Continue
	}

	before, after := v.opts.ResolvedContext()
	maxPerFile := 0
	if v.opts.OutputMode == searchmodel.OutputFilesOnly {
		maxPerFile = 1
	}
	events := printerfeed.Scan(decoded, v.matcher, printerfeed.Options{
		Before:      before,
		After:       after,
		Multiline:   v.opts.Multiline,
		InvertMatch: v.opts.InvertMatch,
		MaxMatches:  maxPerFile,
	})

	var modified, accessed, created *time.Time
	if v.opts.SortBy != "" {
		modified, accessed, created = fileTimestamps(e.Info)
	}

	for _, ev := range events {
		if ev.Kind != printerfeed.KindMatch && ev.Kind != printerfeed.KindContext {
			continue
		}
		if v.buf.CheckCancellation() {
			return walker.Quit
		}

		matchText := ev.Text
		if ev.Kind == printerfeed.KindMatch && v.opts.OnlyMatching && len(ev.Submatches) > 0 {
			matchText = ev.Submatches[0].Text
		}
		line := ev.LineNumber

		switch v.opts.OutputMode {
		case searchmodel.OutputFilesOnly:
			if ev.Kind != printerfeed.KindMatch {
				continue
			}
			if !v.sctx.ReserveFileOnce(e.Path, v.maxResults) {
				continue
			}
			v.buf.Emit(searchmodel.SearchResult{
				Path: e.Path, Type: searchmodel.ResultFile,
				IsBinary: isBinary, BinarySuppressed: suppressed,
				Modified: modified, Accessed: accessed, Created: created,
			})
		case searchmodel.OutputCountPerFile:
			if ev.Kind != printerfeed.KindMatch {
				continue
			}
			if !v.reserveCount(e.Path, modified, accessed, created) {
				return walker.Quit
			}
		default: // full
			if _, ok := v.sctx.ReserveMatch(v.maxResults); !ok {
				v.buf.Close()
				return walker.Quit
			}
			v.buf.Emit(searchmodel.SearchResult{
				Path: e.Path, Line: intPtr(line), Match: strPtr(matchText),
				Type: searchmodel.ResultContent, IsContext: ev.Kind == printerfeed.KindContext,
				IsBinary: isBinary, BinarySuppressed: suppressed,
				Modified: modified, Accessed: accessed, Created: created,
			})
		}
	}
	return walker.Continue
}

// reserveCount implements the count-per-file reservation of §4.3/§4.4:
// total_files increments only on first observation of a file, and only
// if the cap hasn't already been reached — the reservation itself
// refuses a new slot rather than inserting first and checking after.
func (v *Visitor) reserveCount(path string, modified, accessed, created *time.Time) bool {
	data, ok := v.sctx.ReserveFileCountFirstSeen(path, v.maxResults, time.Now())
	if !ok {
		return false
	}
	if modified != nil {
		data.Modified = modified
	}
	if accessed != nil {
		data.Accessed = accessed
	}
	if created != nil {
		data.Created = created
	}
	return true
}

// VisitError implements walker.Visitor.
func (v *Visitor) VisitError(e walker.Error) {
	v.sctx.AppendError(searchmodel.SearchError{
		Path:     e.Path,
		Message:  e.Err.Error(),
		Category: categorizeError(e.Err),
	})
}

func categorizeError(err error) searchmodel.ErrorCategory {
	if os.IsPermission(err) {
		return searchmodel.ErrorPermissionDenied
	}
	if os.IsNotExist(err) {
		return searchmodel.ErrorInvalidPath
	}
	return searchmodel.ErrorIO
}

func fileTimestamps(info os.FileInfo) (modified, accessed, created *time.Time) {
	if info == nil {
		return nil, nil, nil
	}
	m := info.ModTime()
	accessed, created = statTimes(info)
	return &m, accessed, created
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
