package session

import (
	"time"

	"github.com/standardbeagle/codesearch/internal/resultbuffer"
	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// Session is the registry's unit of work: one SearchSession (spec.md
// §3) with its shared Context, signals, and enough metadata to answer
// list_active_sessions without touching the Context's locks.
type Session struct {
	ID      string
	Options searchmodel.SearchSessionOptions

	ctx    *searchcontext.Context
	first  *resultbuffer.FirstResultSignal
	cancel *resultbuffer.CancelSignal

	// done is closed by runWorker when it returns, after MarkComplete,
	// letting the sort wait, the timeout monitor and the worker's own
	// cancellation watcher observe completion without polling the
	// Context directly.
	done chan struct{}
}

func newSession(id string, opts searchmodel.SearchSessionOptions, startTime time.Time) *Session {
	return &Session{
		ID:      id,
		Options: opts,
		ctx:     searchcontext.New(startTime),
		first:   resultbuffer.NewFirstResultSignal(),
		cancel:  resultbuffer.NewCancelSignal(),
		done:    make(chan struct{}),
	}
}

// searchKindEnumerate labels a list_active_sessions summary for a
// list_files_only session, which has no search_type of its own.
const searchKindEnumerate searchmodel.SearchType = "enumerate"

// searchKind reports the dispatch category used for list_active_sessions
// summaries, mirroring §4.7 step 4's (list_files_only, search_type)
// dispatch.
func (s *Session) searchKind() searchmodel.SearchType {
	if s.Options.ListFilesOnly {
		return searchKindEnumerate
	}
	return s.Options.SearchType
}

// summary snapshots this session into a SessionSummary, spec.md §4.7
// "list_active_sessions".
func (s *Session) summary() searchmodel.SessionSummary {
	isError, _, wasIncomplete := s.ctx.ErrorState()
	return searchmodel.SessionSummary{
		ID:            s.ID,
		SearchType:    s.searchKind(),
		Pattern:       s.Options.Pattern,
		IsComplete:    s.ctx.IsComplete(),
		IsError:       isError,
		ElapsedMicros: time.Since(s.ctx.StartTime()).Microseconds(),
		ResultCount:   s.ctx.ResultsLen(),
		TimeoutMs:     s.Options.TimeoutMs,
		WasIncomplete: wasIncomplete,
	}
}
