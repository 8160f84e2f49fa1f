// Package session implements the session manager of spec.md §4.7: the
// sharded session registry, start_search/get_more_results/
// terminate_search/list_active_sessions entry points, and the
// background retention sweeper. It is grounded on lci's
// internal/core/trigram_sharded_storage.go for the bucket-sharded
// registry shape, generalized from a trigram-hash keyspace into a
// session-UUID keyspace.
package session

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/standardbeagle/codesearch/internal/apperr"
	"github.com/standardbeagle/codesearch/internal/diag"
	"github.com/standardbeagle/codesearch/internal/pathvalidate"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// Manager owns the session registry and the retention sweeper, spec.md
// §4.7.
type Manager struct {
	registry  *registry
	validator pathvalidate.Validator

	sweepOnce sync.Once
	sweepStop chan struct{}
}

// NewManager constructs a Manager backed by the given path validator
// and starts its retention sweeper goroutine.
func NewManager(validator pathvalidate.Validator) *Manager {
	m := &Manager{
		registry:  newRegistry(),
		validator: validator,
		sweepStop: make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Stop ends the retention sweeper. Intended for test/process shutdown;
// it does not cancel any in-flight sessions.
func (m *Manager) Stop() {
	m.sweepOnce.Do(func() { close(m.sweepStop) })
}

// StartSearch implements spec.md §4.7's start_search.
func (m *Manager) StartSearch(ctx context.Context, opts searchmodel.SearchSessionOptions) (searchmodel.StartSearchResponse, error) {
	opts.MaxResults = m.resolveAndCapMaxResults(opts.MaxResults)

	root, err := m.validator.Validate(opts.RootPath)
	if err != nil {
		return searchmodel.StartSearchResponse{}, err
	}
	if _, err := os.Stat(root); err != nil {
		return searchmodel.StartSearchResponse{}, apperr.PathDenied("start_search", err)
	}

	s, err := m.register(opts)
	if err != nil {
		return searchmodel.StartSearchResponse{}, err
	}

	workerCtx := ctx
	if opts.TimeoutMs != nil {
		var cancelWorker context.CancelFunc
		workerCtx, cancelWorker = context.WithCancel(ctx)
		go m.monitorTimeout(s, *opts.TimeoutMs, cancelWorker)
	}
	go runWorker(workerCtx, s, root)

	if opts.SortBy != "" {
		m.waitForSortOrTimeout(s)
		m.applySort(s)
	} else {
		select {
		case <-s.first.Wait():
		case <-time.After(firstResultWait):
		}
	}

	results, totalMatches := s.ctx.ResultsSlice(0, 10), s.ctx.TotalMatches()
	return searchmodel.StartSearchResponse{
		SessionID:      s.ID,
		Results:        results,
		TotalMatches:   totalMatches,
		TotalFiles:     s.ctx.TotalFiles(),
		RuntimeMicros:  time.Since(s.ctx.StartTime()).Microseconds(),
		ResultsLimited: opts.MaxResults != nil && totalMatches >= int64(*opts.MaxResults),
	}, nil
}

// monitorTimeout implements spec.md §4.7 step 5: a bounded wait for the
// worker, sending cancellation and marking was_incomplete on expiry. If
// the session has already been evicted from the registry, it silently
// gives up rather than touching freed state.
func (m *Manager) monitorTimeout(s *Session, timeoutMs int, cancelWorker context.CancelFunc) {
	select {
	case <-s.done:
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		if _, ok := m.registry.get(s.ID); !ok {
			return
		}
		s.cancel.Cancel()
		cancelWorker()
		s.ctx.MarkIncomplete()
	}
}

// waitForSortOrTimeout implements spec.md §4.7 step 6's sort branch:
// block, heartbeating the session alive, until is_complete or is_error,
// or sortingWaitCap elapses — whichever fires first wins (Open Question
// resolution in DESIGN.md). Supplemented from original_source's
// waiting.rs: also exits early on is_error without waiting out the full
// cap, a pure latency improvement with no behavioral ambiguity.
func (m *Manager) waitForSortOrTimeout(s *Session) {
	deadline := time.Now().Add(sortingWaitCap)
	ticker := time.NewTicker(sortingWaitPoll)
	defer ticker.Stop()
	for {
		if s.ctx.IsComplete() {
			return
		}
		if isError, _, _ := s.ctx.ErrorState(); isError {
			return
		}
		if time.Now().After(deadline) {
			return
		}
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.ctx.Touch()
		}
	}
}

// applySort sorts the session's result list in place per sort_by/
// sort_direction, spec.md §4.7 step 6.
func (m *Manager) applySort(s *Session) {
	sortResults(s.ctx, s.Options.SortBy, s.Options.SortDirection)
}

// GetMoreResults implements spec.md §4.7's get_more_results.
func (m *Manager) GetMoreResults(sessionID string, offset, length int) (searchmodel.GetMoreResultsResponse, error) {
	s, ok := m.registry.get(sessionID)
	if !ok {
		return searchmodel.GetMoreResultsResponse{}, apperr.NotFound("get_more_results", sessionID)
	}

	isComplete := s.ctx.IsComplete()
	isError, err, wasIncomplete := s.ctx.ErrorState()

	total := s.ctx.ResultsLen()
	totalMatches := s.ctx.TotalMatches()

	var page []searchmodel.SearchResult
	var hasMore bool
	if offset < 0 {
		n := -offset
		if n > total {
			n = total
		}
		page = s.ctx.ResultsSlice(total-n, n)
		hasMore = !isComplete
	} else {
		page = s.ctx.ResultsSlice(offset, length)
		hasMore = offset+len(page) < total || !isComplete
	}
	s.ctx.Touch()

	resp := searchmodel.GetMoreResultsResponse{
		Results:       page,
		HasMore:       hasMore,
		TotalMatches:  totalMatches,
		TotalFiles:    s.ctx.TotalFiles(),
		Errors:        s.ctx.Errors(),
		ErrorCount:    s.ctx.ErrorCount(),
		IsComplete:    isComplete,
		IsError:       isError,
		WasIncomplete: wasIncomplete,
	}
	if err != nil {
		resp.ErrorMessage = err.Error()
	}
	return resp, nil
}

// TerminateSearch implements spec.md §4.7's terminate_search.
func (m *Manager) TerminateSearch(sessionID string) bool {
	s, ok := m.registry.get(sessionID)
	if !ok || s.ctx.IsComplete() {
		return false
	}
	s.cancel.Cancel()
	return true
}

// ListActiveSessions implements spec.md §4.7's list_active_sessions.
func (m *Manager) ListActiveSessions() []searchmodel.SessionSummary {
	var out []searchmodel.SessionSummary
	m.registry.forEach(func(s *Session) {
		out = append(out, s.summary())
	})
	return out
}

// register builds a Session and inserts it into the registry, retrying
// on UUID collision up to maxUUIDCollisionAttempts times (spec.md §4.7
// step 3).
func (m *Manager) register(opts searchmodel.SearchSessionOptions) (*Session, error) {
	for attempt := 0; attempt < maxUUIDCollisionAttempts; attempt++ {
		id, err := newUUID()
		if err != nil {
			return nil, apperr.Internal("start_search", err)
		}
		s := newSession(id, opts, time.Now())
		if m.registry.insertIfAbsent(s) {
			return s, nil
		}
	}
	return nil, apperr.Internal("start_search", errRNGCompromised)
}

// resolveAndCapMaxResults implements spec.md §4.7 step 1.
func (m *Manager) resolveAndCapMaxResults(requested *int) *int {
	if requested == nil {
		d := defaultMaxResults
		return &d
	}
	if *requested > hardMaxResultsCap {
		diag.Warnf("start_search: max_results %d capped to %d", *requested, hardMaxResultsCap)
		capped := hardMaxResultsCap
		return &capped
	}
	return requested
}

// sweepLoop implements spec.md §4.7's retention sweeper.
func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(retentionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.sweepStop:
			return
		case <-ticker.C:
			m.evictStale()
		}
	}
}

func (m *Manager) evictStale() {
	now := time.Now()
	var evict []string
	m.registry.forEach(func(s *Session) {
		lastActivity := s.ctx.StartTime().Add(time.Duration(s.ctx.LastActivityMicros()) * time.Microsecond)
		idle := now.Sub(lastActivity)
		if s.ctx.IsComplete() {
			if idle > completedSessionRetention {
				evict = append(evict, s.ID)
			}
		} else if idle > activeSessionRetention {
			evict = append(evict, s.ID)
		}
	})
	for _, id := range evict {
		m.registry.delete(id)
	}
}
