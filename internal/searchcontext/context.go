// Package searchcontext holds the shared, concurrently-mutated state one
// SearchSession's worker task and any number of get_more_results/
// list_sessions readers contend on: the append-only result list, the
// monotonic counters, and the three auxiliary maps described in
// spec.md §3. It is grounded on lci's
// internal/core/trigram_sharded_storage.go for the shard-friendly
// split between atomic counters and lock-guarded maps, generalized from
// one sharded index into the single-session aggregate spec.md describes.
package searchcontext

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// Context is the mutable state backing one SearchSession, spec.md §3.
// Every exported method is safe for concurrent use by the worker task,
// the timeout monitor, and any number of readers.
type Context struct {
	startTime time.Time

	resultsMu sync.RWMutex
	results   []searchmodel.SearchResult

	totalMatches int64 // atomic
	totalFiles   int64 // atomic
	lastActivity int64 // atomic, microseconds since startTime
	isComplete   int32 // atomic bool

	stateMu      sync.Mutex
	isError      bool
	err          error
	wasIncomplete bool

	errorCount int64 // atomic

	errorsMu sync.Mutex
	errors   []searchmodel.SearchError

	seenMu sync.Mutex
	seen   map[string]bool

	countsMu sync.Mutex
	counts   map[string]*searchmodel.FileCountData
}

// New creates an empty Context with startTime fixed at creation —
// every elapsed-microseconds reading is relative to this instant.
func New(startTime time.Time) *Context {
	return &Context{
		startTime: startTime,
		seen:      make(map[string]bool),
		counts:    make(map[string]*searchmodel.FileCountData),
	}
}

// StartTime returns the instant the session began, used by the worker
// to compute elapsed microseconds for last_activity.
func (c *Context) StartTime() time.Time { return c.startTime }

// ReserveMatch implements the full-mode reservation of §4.3 step 1: a
// CAS loop against total_matches, refusing once it reaches max.
// Returns the slot index (0-based) and ok=false if max_results has
// already been reached.
func (c *Context) ReserveMatch(maxResults int) (int, bool) {
	for {
		cur := atomic.LoadInt64(&c.totalMatches)
		if int(cur) >= maxResults {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(&c.totalMatches, cur, cur+1) {
			return int(cur), true
		}
	}
}

// ReserveFileOnce implements the files-only reservation of §4.3: the
// file is added to seen_files and total_matches incremented atomically
// within the same critical section, guarding against two workers racing
// on the same file under concurrent directory traversal.
func (c *Context) ReserveFileOnce(path string, maxResults int) bool {
	c.seenMu.Lock()
	defer c.seenMu.Unlock()
	if c.seen[path] {
		return false
	}
	cur := atomic.LoadInt64(&c.totalMatches)
	if int(cur) >= maxResults {
		return false
	}
	c.seen[path] = true
	atomic.AddInt64(&c.totalMatches, 1)
	return true
}

// ReserveFileCountFirstSeen implements the count-per-file reservation of
// §4.3: a newly-seen file is only inserted into file_counts, and
// total_files only incremented, if the cap hasn't already been reached —
// check-then-insert under the same lock, mirroring ReserveFileOnce above
// and original_source's content_search.rs total_files.fetch_update gating
// counts.insert. A file already present keeps incrementing regardless of
// the cap, since it isn't taking a new slot. Returns ok=false (with a nil
// data) when a not-yet-seen file would exceed max_results.
func (c *Context) ReserveFileCountFirstSeen(path string, maxResults int, now time.Time) (*searchmodel.FileCountData, bool) {
	c.countsMu.Lock()
	defer c.countsMu.Unlock()
	data, ok := c.counts[path]
	if !ok {
		if maxResults > 0 && int(atomic.LoadInt64(&c.totalFiles)) >= maxResults {
			return nil, false
		}
		data = &searchmodel.FileCountData{}
		c.counts[path] = data
		atomic.AddInt64(&c.totalFiles, 1)
	}
	data.Count++
	return data, true
}

// FileCounts returns a snapshot of the count-per-file map, used by
// §4.4's finalization step once the walk has completed.
func (c *Context) FileCounts() map[string]*searchmodel.FileCountData {
	c.countsMu.Lock()
	defer c.countsMu.Unlock()
	out := make(map[string]*searchmodel.FileCountData, len(c.counts))
	for k, v := range c.counts {
		cp := *v
		out[k] = &cp
	}
	return out
}

// ReplaceResults overwrites the result list wholesale, the one case
// invariant 3 of spec.md §3 permits exceeding the normal append
// discipline: count-per-file finalization.
func (c *Context) ReplaceResults(results []searchmodel.SearchResult) {
	c.resultsMu.Lock()
	c.results = results
	c.resultsMu.Unlock()
}

// AppendResults drains a worker's thread-local buffer into the shared
// list under a single write lock (§4.3 step 2) and reports whether the
// list was empty beforehand, so the caller can fire the first-result
// signal exactly once.
func (c *Context) AppendResults(batch []searchmodel.SearchResult) (wasEmpty bool) {
	if len(batch) == 0 {
		return false
	}
	c.resultsMu.Lock()
	wasEmpty = len(c.results) == 0
	c.results = append(c.results, batch...)
	c.resultsMu.Unlock()
	return wasEmpty
}

// ResultsLen reports the current shared result count, used for
// pagination bounds checks.
func (c *Context) ResultsLen() int {
	c.resultsMu.RLock()
	defer c.resultsMu.RUnlock()
	return len(c.results)
}

// ResultsSlice returns a defensive copy of results[offset:offset+limit],
// clamped to the available range, under a read lock (§4.7 pagination).
func (c *Context) ResultsSlice(offset, limit int) []searchmodel.SearchResult {
	c.resultsMu.RLock()
	defer c.resultsMu.RUnlock()
	if offset >= len(c.results) {
		return nil
	}
	end := offset + limit
	if end > len(c.results) {
		end = len(c.results)
	}
	out := make([]searchmodel.SearchResult, end-offset)
	copy(out, c.results[offset:end])
	return out
}

// TotalMatches and TotalFiles expose the monotonic counters (§3
// invariant 2).
func (c *Context) TotalMatches() int64 { return atomic.LoadInt64(&c.totalMatches) }
func (c *Context) TotalFiles() int64   { return atomic.LoadInt64(&c.totalFiles) }

// SetTotalMatches is used only by count-per-file finalization (§4.4),
// which overwrites total_matches with the unique-file count so the
// external API's "results" number stays consistent with the replaced
// result list.
func (c *Context) SetTotalMatches(n int64) { atomic.StoreInt64(&c.totalMatches, n) }

// Touch records elapsed microseconds since startTime into last_activity
// (§4.3's throttled heartbeat, §3 invariant 6).
func (c *Context) Touch() {
	atomic.StoreInt64(&c.lastActivity, time.Since(c.startTime).Microseconds())
}

// LastActivityMicros returns the last recorded heartbeat, used by the
// retention sweeper.
func (c *Context) LastActivityMicros() int64 { return atomic.LoadInt64(&c.lastActivity) }

// MarkComplete transitions is_complete false→true exactly once (§3
// invariant 1); subsequent calls are no-ops and return false.
func (c *Context) MarkComplete() bool {
	return atomic.CompareAndSwapInt32(&c.isComplete, 0, 1)
}

// IsComplete reports the current is_complete value.
func (c *Context) IsComplete() bool { return atomic.LoadInt32(&c.isComplete) == 1 }

// SetError records a fatal session error (lock-guarded, §3).
func (c *Context) SetError(err error) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.isError = true
	c.err = err
}

// MarkIncomplete sets was_incomplete, fired once cancellation drains
// every worker buffer (§3 invariant 5).
func (c *Context) MarkIncomplete() {
	c.stateMu.Lock()
	c.wasIncomplete = true
	c.stateMu.Unlock()
}

// ErrorState returns the lock-guarded error fields in one snapshot.
func (c *Context) ErrorState() (isError bool, err error, wasIncomplete bool) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.isError, c.err, c.wasIncomplete
}

// AppendError records one traversal error, capped at
// searchmodel.MaxStoredErrors detailed entries; error_count keeps
// counting past the cap so callers can tell how many were dropped.
func (c *Context) AppendError(e searchmodel.SearchError) {
	atomic.AddInt64(&c.errorCount, 1)
	c.errorsMu.Lock()
	defer c.errorsMu.Unlock()
	if len(c.errors) < searchmodel.MaxStoredErrors {
		c.errors = append(c.errors, e)
	}
}

// Errors returns a copy of the stored error list.
func (c *Context) Errors() []searchmodel.SearchError {
	c.errorsMu.Lock()
	defer c.errorsMu.Unlock()
	out := make([]searchmodel.SearchError, len(c.errors))
	copy(out, c.errors)
	return out
}

// ErrorCount returns the total number of errors observed, including
// those dropped past the detailed-list cap.
func (c *Context) ErrorCount() int64 { return atomic.LoadInt64(&c.errorCount) }
