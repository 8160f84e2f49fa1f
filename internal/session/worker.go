package session

import (
	"context"

	"github.com/standardbeagle/codesearch/internal/contentvisitor"
	"github.com/standardbeagle/codesearch/internal/enumvisitor"
	"github.com/standardbeagle/codesearch/internal/ignore"
	"github.com/standardbeagle/codesearch/internal/matcher"
	"github.com/standardbeagle/codesearch/internal/namevisitor"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
	"github.com/standardbeagle/codesearch/internal/walker"
)

// closer is implemented by every per-mode visitor; Close forces a final
// buffer flush once the walk ends (spec.md §4.3's "on drop the visitor
// forces a final update").
type closer interface {
	Close()
}

// runWorker executes one SearchSession's walk to completion. It is the
// "blocking worker task" spec.md §4.7 step 4 describes, dispatching on
// (list_files_only, search_type) before constructing the matching
// visitor, then running the walker synchronously. Call it from its own
// goroutine; it returns once the walk (or cancellation) finishes.
func runWorker(ctx context.Context, s *Session, root string) {
	defer close(s.done)
	opts := s.Options

	maxResults := resolveMaxResults(opts.MaxResults)

	cfg := walker.Config{
		Roots:          []string{root},
		MaxDepth:       opts.MaxDepth,
		IncludeHidden:  opts.IncludeHidden,
		FollowSymlinks: opts.FollowSymlinks,
		OneFileSystem:  opts.OneFileSystem,
		Ignore:         ignoreLayers(opts.NoIgnore),
		TypeFilter:     buildTypeFilter(opts.Type, opts.TypeNot),
		MaxFilesize:    opts.MaxFilesize,
		ThreadCount:    opts.ThreadCount,
	}
	if opts.FilePattern != "" {
		cfg.OverrideGlobs = append(cfg.OverrideGlobs, walker.OverrideGlob{Pattern: opts.FilePattern})
	}

	var v interface {
		walker.Visitor
		closer
	}

	switch {
	case opts.ListFilesOnly:
		v = enumvisitor.New(s.ctx, s.first, s.cancel, opts, maxResults)
	case opts.SearchType == searchmodel.SearchTypeContent:
		m, err := matcher.Compile(matcher.Options{
			Pattern:       opts.Pattern,
			LiteralSearch: opts.LiteralSearch,
			CaseMode:      opts.CaseMode,
			BoundaryMode:  opts.BoundaryMode,
			Engine:        opts.Engine,
		})
		if err != nil {
			s.ctx.SetError(err)
			s.ctx.MarkComplete()
			return
		}
		v = contentvisitor.New(ctx, m, s.ctx, s.first, s.cancel, opts, maxResults)
	default:
		m, err := matcher.Compile(matcher.Options{
			Pattern:       opts.Pattern,
			LiteralSearch: opts.LiteralSearch,
			CaseMode:      opts.CaseMode,
			BoundaryMode:  opts.BoundaryMode,
			Engine:        opts.Engine,
		})
		if err != nil {
			s.ctx.SetError(err)
			s.ctx.MarkComplete()
			return
		}
		v = namevisitor.New(ctx, m, s.ctx, s.first, s.cancel, opts, maxResults)
	}

	go func() {
		select {
		case <-s.cancel.Wait():
		case <-ctx.Done():
			s.cancel.Cancel()
		case <-s.done:
		}
	}()

	if err := walker.Walk(ctx, cfg, v); err != nil {
		s.ctx.AppendError(searchmodel.SearchError{Message: err.Error()})
	}
	v.Close()

	if opts.OutputMode == searchmodel.OutputCountPerFile {
		contentvisitor.Finalize(s.ctx, opts.OutputMode)
	}

	s.ctx.MarkComplete()
}

// resolveMaxResults applies spec.md §4.7 step 1's default/cap policy.
// Capping (and the warning log) happens earlier in StartSearch, where
// the caller has access to the diagnostic logger; this just re-derives
// the same effective value for the worker.
func resolveMaxResults(requested *int) int {
	if requested == nil {
		return defaultMaxResults
	}
	if *requested > hardMaxResultsCap {
		return hardMaxResultsCap
	}
	return *requested
}

func ignoreLayers(noIgnore bool) ignore.Layers {
	if noIgnore {
		return ignore.DisableAll()
	}
	return ignore.DefaultLayers()
}
