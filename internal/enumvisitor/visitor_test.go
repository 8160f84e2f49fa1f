package enumvisitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codesearch/internal/resultbuffer"
	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
	"github.com/standardbeagle/codesearch/internal/walker"
)

func entryFor(t *testing.T, dir, name string) walker.Entry {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	info, err := os.Stat(full)
	require.NoError(t, err)
	return walker.Entry{Path: full, Info: info}
}

func TestVisitor_EmitsFileListResultForEveryFile(t *testing.T) {
	dir := t.TempDir()
	e1 := entryFor(t, dir, "a.txt")
	e2 := entryFor(t, dir, "b.txt")

	sctx := searchcontext.New(time.Now())
	v := New(sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(), searchmodel.SearchSessionOptions{}, 100)

	assert.Equal(t, walker.Continue, v.Visit(e1))
	assert.Equal(t, walker.Continue, v.Visit(e2))
	v.Close()

	assert.Equal(t, 2, sctx.ResultsLen())
	results := sctx.ResultsSlice(0, 2)
	for _, r := range results {
		assert.Equal(t, searchmodel.ResultList, r.Type)
		assert.Nil(t, r.Modified)
	}
}

func TestVisitor_SkipsDirectoryEntries(t *testing.T) {
	dir := t.TempDir()
	info, err := os.Stat(dir)
	require.NoError(t, err)

	sctx := searchcontext.New(time.Now())
	v := New(sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(), searchmodel.SearchSessionOptions{}, 100)

	sig := v.Visit(walker.Entry{Path: dir, Info: info, IsDir: true})
	v.Close()

	assert.Equal(t, walker.Continue, sig)
	assert.Equal(t, 0, sctx.ResultsLen())
}

func TestVisitor_CollectsModifiedTimeWhenSortRequested(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "a.txt")

	sctx := searchcontext.New(time.Now())
	v := New(sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(), searchmodel.SearchSessionOptions{SortBy: "modified"}, 100)

	v.Visit(e)
	v.Close()

	results := sctx.ResultsSlice(0, 1)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Modified)
}

func TestVisitor_MaxResultsStopsWalk(t *testing.T) {
	dir := t.TempDir()
	e1 := entryFor(t, dir, "a.txt")
	e2 := entryFor(t, dir, "b.txt")

	sctx := searchcontext.New(time.Now())
	v := New(sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(), searchmodel.SearchSessionOptions{}, 1)

	assert.Equal(t, walker.Continue, v.Visit(e1))
	assert.Equal(t, walker.Quit, v.Visit(e2))
	assert.Equal(t, int64(1), sctx.TotalMatches())
}

func TestVisitor_ReportsErrorToContext(t *testing.T) {
	sctx := searchcontext.New(time.Now())
	v := New(sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(), searchmodel.SearchSessionOptions{}, 100)

	v.VisitError(walker.Error{Path: "/blocked", Err: os.ErrPermission})

	assert.Equal(t, int64(1), sctx.ErrorCount())
}
