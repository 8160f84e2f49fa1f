// Package resultbuffer implements the thread-local result buffering and
// two-phase reservation protocol of spec.md §4.3: each worker batches
// SearchResults locally before taking the shared Context's write lock,
// fires the first-result signal exactly once, and throttles the
// last_activity heartbeat. Grounded on lci's
// internal/mcp/integration_test.go pattern of a context.Context driving
// cancellation across a bounded worker pool.
package resultbuffer

import (
	"sync"
	"time"

	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

const (
	// capacity is the thread-local buffer size before a flush, spec.md
	// §4.3 "capacity ≈ 512".
	capacity = 512
	// heartbeatEvery is N in "every N matches OR every T ms".
	heartbeatEvery = 10
	// heartbeatInterval is T in the same rule.
	heartbeatInterval = 100 * time.Millisecond
	// cancelCheckEvery is the "every 100 emitted results" cadence.
	cancelCheckEvery = 100
)

// FirstResultSignal is fired exactly once, the instant the shared
// result list transitions from empty to non-empty.
type FirstResultSignal struct {
	once sync.Once
	ch   chan struct{}
}

// NewFirstResultSignal returns an unfired signal.
func NewFirstResultSignal() *FirstResultSignal {
	return &FirstResultSignal{ch: make(chan struct{})}
}

// Fire closes the channel the first time it is called; subsequent
// calls are no-ops.
func (s *FirstResultSignal) Fire() { s.once.Do(func() { close(s.ch) }) }

// Wait returns a channel that is closed once Fire has been called.
func (s *FirstResultSignal) Wait() <-chan struct{} { return s.ch }

// CancelSignal is the single-slot, multi-consumer cancellation signal
// spec.md §3 describes: any number of goroutines can select on Wait(),
// and Cancel is idempotent.
type CancelSignal struct {
	once sync.Once
	ch   chan struct{}
}

// NewCancelSignal returns an unfired signal.
func NewCancelSignal() *CancelSignal { return &CancelSignal{ch: make(chan struct{})} }

// Cancel closes the channel the first time it is called.
func (s *CancelSignal) Cancel() { s.once.Do(func() { close(s.ch) }) }

// Cancelled reports whether Cancel has been called, without blocking.
func (s *CancelSignal) Cancelled() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Wait returns a channel that is closed once Cancel has been called.
func (s *CancelSignal) Wait() <-chan struct{} { return s.ch }

// Buffer is one worker thread's local accumulator. It is not safe for
// concurrent use — spec.md §4.3 is explicit that this state is
// thread-local, one per worker goroutine.
type Buffer struct {
	ctx    *searchcontext.Context
	first  *FirstResultSignal
	cancel *CancelSignal

	pending        []searchmodel.SearchResult
	sinceHeartbeat int
	lastHeartbeat  time.Time
	sinceCancel    int

	wasIncomplete bool
}

// New creates a Buffer bound to the session's shared Context and
// signals.
func New(ctx *searchcontext.Context, first *FirstResultSignal, cancel *CancelSignal) *Buffer {
	return &Buffer{
		ctx:           ctx,
		first:         first,
		cancel:        cancel,
		pending:       make([]searchmodel.SearchResult, 0, capacity),
		lastHeartbeat: time.Now(),
	}
}

// Emit appends one already-reserved result to the local buffer,
// flushing when it fills. Callers must have already succeeded at the
// relevant Context reservation (ReserveMatch/ReserveFileOnce/
// ReserveFileCountFirstSeen) before calling Emit.
func (b *Buffer) Emit(r searchmodel.SearchResult) {
	b.pending = append(b.pending, r)
	b.sinceHeartbeat++
	if len(b.pending) >= capacity {
		b.Flush()
	}
	b.maybeHeartbeat()
}

// Flush drains the local buffer into the shared Context, firing the
// first-result signal exactly once if the shared list was empty
// beforehand (§4.3 step 2).
func (b *Buffer) Flush() {
	if len(b.pending) == 0 {
		return
	}
	wasEmpty := b.ctx.AppendResults(b.pending)
	if wasEmpty {
		b.first.Fire()
	}
	b.pending = b.pending[:0]
	b.ctx.Touch()
	b.lastHeartbeat = time.Now()
	b.sinceHeartbeat = 0
}

func (b *Buffer) maybeHeartbeat() {
	if b.sinceHeartbeat >= heartbeatEvery || time.Since(b.lastHeartbeat) >= heartbeatInterval {
		b.ctx.Touch()
		b.lastHeartbeat = time.Now()
		b.sinceHeartbeat = 0
	}
}

// CheckCancellation implements §4.3's interleaved cancellation check:
// called on entry to each directory-entry visit and every
// cancelCheckEvery emitted results. On a fired signal it flushes,
// marks was_incomplete, and reports true so the caller can return a
// walker-quit signal.
func (b *Buffer) CheckCancellation() bool {
	b.sinceCancel++
	if b.sinceCancel < cancelCheckEvery && !b.cancel.Cancelled() {
		return false
	}
	b.sinceCancel = 0
	if !b.cancel.Cancelled() {
		return false
	}
	b.Flush()
	b.wasIncomplete = true
	b.ctx.MarkIncomplete()
	return true
}

// Close forces a final flush and heartbeat, spec.md §4.3 "on drop the
// visitor forces a final update" — called once a visitor's walk
// participation ends, whether by exhaustion, cancellation, or error.
func (b *Buffer) Close() {
	b.Flush()
	b.ctx.Touch()
}

// WasIncomplete reports whether this buffer observed cancellation.
func (b *Buffer) WasIncomplete() bool { return b.wasIncomplete }
