package resultbuffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

func TestBuffer_FlushMovesResultsIntoContext(t *testing.T) {
	ctx := searchcontext.New(time.Now())
	first := NewFirstResultSignal()
	cancel := NewCancelSignal()
	b := New(ctx, first, cancel)

	b.Emit(searchmodel.SearchResult{Path: "a"})
	b.Emit(searchmodel.SearchResult{Path: "b"})
	assert.Equal(t, 0, ctx.ResultsLen())

	b.Flush()
	assert.Equal(t, 2, ctx.ResultsLen())

	select {
	case <-first.Wait():
	default:
		t.Fatal("first-result signal should have fired")
	}
}

func TestBuffer_FirstResultFiresOnlyOnce(t *testing.T) {
	ctx := searchcontext.New(time.Now())
	first := NewFirstResultSignal()
	cancel := NewCancelSignal()
	b := New(ctx, first, cancel)

	b.Emit(searchmodel.SearchResult{Path: "a"})
	b.Flush()
	b.Emit(searchmodel.SearchResult{Path: "b"})
	b.Flush()

	// Fire is idempotent; a second Wait() read still succeeds instead of
	// blocking.
	select {
	case <-first.Wait():
	default:
		t.Fatal("signal should remain fired")
	}
}

func TestBuffer_CheckCancellation_FlushesAndMarksIncomplete(t *testing.T) {
	ctx := searchcontext.New(time.Now())
	first := NewFirstResultSignal()
	cancel := NewCancelSignal()
	b := New(ctx, first, cancel)

	b.Emit(searchmodel.SearchResult{Path: "a"})
	cancel.Cancel()

	quit := b.CheckCancellation()
	assert.True(t, quit)
	assert.True(t, b.WasIncomplete())
	assert.Equal(t, 1, ctx.ResultsLen())

	_, _, wasIncomplete := ctx.ErrorState()
	assert.True(t, wasIncomplete)
}

func TestBuffer_Close_FlushesRemainder(t *testing.T) {
	ctx := searchcontext.New(time.Now())
	b := New(ctx, NewFirstResultSignal(), NewCancelSignal())
	b.Emit(searchmodel.SearchResult{Path: "a"})
	b.Close()
	assert.Equal(t, 1, ctx.ResultsLen())
}

func TestCancelSignal_Idempotent(t *testing.T) {
	cancel := NewCancelSignal()
	assert.False(t, cancel.Cancelled())
	cancel.Cancel()
	cancel.Cancel()
	assert.True(t, cancel.Cancelled())
}
