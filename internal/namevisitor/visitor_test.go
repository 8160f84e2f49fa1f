package namevisitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codesearch/internal/matcher"
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

func TestVisitor_MatchesBaseName(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "foo_test.go")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{}, 100)

	sig := v.Visit(e)
	v.Close()

	assert.Equal(t, walker.Continue, sig)
	assert.Equal(t, 1, sctx.ResultsLen())
	assert.Equal(t, int64(1), sctx.TotalMatches())
	assert.Equal(t, int64(1), sctx.TotalFiles())
}

func TestVisitor_NonMatchingNameIsSkipped(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "bar.go")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{}, 100)

	sig := v.Visit(e)
	v.Close()

	assert.Equal(t, walker.Continue, sig)
	assert.Equal(t, 0, sctx.ResultsLen())
}

func TestVisitor_EarlyTerminationClaimsExactMatchAndQuits(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "foo")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{EarlyTermination: true}, 100)

	sig := v.Visit(e)

	assert.Equal(t, walker.Quit, sig)
	assert.Equal(t, 1, sctx.ResultsLen())
}

func TestVisitor_EarlyTerminationSecondClaimantQuitsWithoutEmitting(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "foo")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{EarlyTermination: true}, 100)

	v.claimed = 1 // simulate another worker having already claimed it

	sig := v.Visit(e)

	assert.Equal(t, walker.Quit, sig)
	assert.Equal(t, 0, sctx.ResultsLen())
}

func TestVisitor_EarlyTerminationNonExactMatchFallsThroughToReservation(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "foobar.go")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{EarlyTermination: true}, 100)

	sig := v.Visit(e)
	v.Close()

	assert.Equal(t, walker.Continue, sig)
	assert.Equal(t, 1, sctx.ResultsLen())
}

func TestVisitor_CaseInsensitiveExactMatch(t *testing.T) {
	dir := t.TempDir()
	e := entryFor(t, dir, "FOO")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true, CaseMode: searchmodel.CaseInsensitive})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{EarlyTermination: true, CaseMode: searchmodel.CaseInsensitive}, 100)

	sig := v.Visit(e)

	assert.Equal(t, walker.Quit, sig)
	assert.Equal(t, 1, sctx.ResultsLen())
}

func TestVisitor_MaxResultsStopsWalk(t *testing.T) {
	dir := t.TempDir()
	e1 := entryFor(t, dir, "foo1")
	e2 := entryFor(t, dir, "foo2")

	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	sctx := searchcontext.New(time.Now())
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{}, 1)

	sig1 := v.Visit(e1)
	assert.Equal(t, walker.Continue, sig1)

	sig2 := v.Visit(e2)
	assert.Equal(t, walker.Quit, sig2)
}

func TestVisitor_ReportsErrorToContext(t *testing.T) {
	sctx := searchcontext.New(time.Now())
	m, err := matcher.Compile(matcher.Options{Pattern: "foo", LiteralSearch: true})
	require.NoError(t, err)
	v := New(context.Background(), m, sctx, resultbuffer.NewFirstResultSignal(), resultbuffer.NewCancelSignal(),
		searchmodel.SearchSessionOptions{}, 100)

	v.VisitError(walker.Error{Path: "/blocked", Err: os.ErrPermission})

	assert.Equal(t, int64(1), sctx.ErrorCount())
	errs := sctx.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "/blocked", errs[0].Path)
}
