package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codesearch/internal/pathvalidate"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(pathvalidate.New(nil, nil))
	t.Cleanup(m.Stop)
	return m
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestStartSearch_FileNameSearchReturnsResultsPromptly(t *testing.T) {
	dir := writeTree(t, map[string]string{"foo.go": "x", "bar.go": "y"})
	m := newTestManager(t)

	resp, err := m.StartSearch(context.Background(), searchmodel.SearchSessionOptions{
		RootPath: dir,
		Pattern:  "foo",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)

	require.Eventually(t, func() bool {
		r, _ := m.GetMoreResults(resp.SessionID, 0, 10)
		return r.IsComplete
	}, time.Second, 5*time.Millisecond)
}

func TestStartSearch_ContentSearchWithSortBlocksUntilComplete(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "foo\n", "b.txt": "foo\n"})
	m := newTestManager(t)

	resp, err := m.StartSearch(context.Background(), searchmodel.SearchSessionOptions{
		RootPath:   dir,
		Pattern:    "foo",
		SearchType: searchmodel.SearchTypeContent,
		SortBy:     searchmodel.SortByPath,
	})
	require.NoError(t, err)

	more, err := m.GetMoreResults(resp.SessionID, 0, 10)
	require.NoError(t, err)
	assert.True(t, more.IsComplete)
}

func TestGetMoreResults_UnknownSessionReturnsError(t *testing.T) {
	m := newTestManager(t)
	_, err := m.GetMoreResults("does-not-exist", 0, 10)
	assert.Error(t, err)
}

func TestGetMoreResults_NegativeOffsetReturnsTail(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.txt": "foo\n", "b.txt": "foo\n", "c.txt": "foo\n",
	})
	m := newTestManager(t)

	resp, err := m.StartSearch(context.Background(), searchmodel.SearchSessionOptions{
		RootPath:   dir,
		Pattern:    "foo",
		SearchType: searchmodel.SearchTypeContent,
		SortBy:     searchmodel.SortByPath,
	})
	require.NoError(t, err)

	page, err := m.GetMoreResults(resp.SessionID, -1, 1)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
}

func TestTerminateSearch_UnknownSessionReturnsFalse(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.TerminateSearch("nope"))
}

func TestTerminateSearch_CompletedSessionReturnsFalse(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "foo\n"})
	m := newTestManager(t)

	resp, err := m.StartSearch(context.Background(), searchmodel.SearchSessionOptions{RootPath: dir, Pattern: "foo"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		r, _ := m.GetMoreResults(resp.SessionID, 0, 10)
		return r.IsComplete
	}, time.Second, 5*time.Millisecond)

	assert.False(t, m.TerminateSearch(resp.SessionID))
}

func TestListActiveSessions_IncludesStartedSession(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "foo\n"})
	m := newTestManager(t)

	resp, err := m.StartSearch(context.Background(), searchmodel.SearchSessionOptions{RootPath: dir, Pattern: "foo"})
	require.NoError(t, err)

	found := false
	for _, s := range m.ListActiveSessions() {
		if s.ID == resp.SessionID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvictStale_RemovesIdleCompletedSession(t *testing.T) {
	m := newTestManager(t)
	s := newSession("stale-completed", searchmodel.SearchSessionOptions{}, time.Now().Add(-time.Hour))
	s.ctx.MarkComplete()
	require.True(t, m.registry.insertIfAbsent(s))

	m.evictStale()

	_, ok := m.registry.get("stale-completed")
	assert.False(t, ok)
}

func TestEvictStale_RemovesIdleActiveSessionAfterLongerThreshold(t *testing.T) {
	m := newTestManager(t)
	s := newSession("stale-active", searchmodel.SearchSessionOptions{}, time.Now().Add(-time.Hour))
	require.True(t, m.registry.insertIfAbsent(s))

	m.evictStale()

	_, ok := m.registry.get("stale-active")
	assert.False(t, ok)
}

func TestEvictStale_KeepsFreshActiveSession(t *testing.T) {
	m := newTestManager(t)
	s := newSession("fresh", searchmodel.SearchSessionOptions{}, time.Now())
	require.True(t, m.registry.insertIfAbsent(s))

	m.evictStale()

	_, ok := m.registry.get("fresh")
	assert.True(t, ok)
}

func TestRegister_ReturnsSessionWithID(t *testing.T) {
	m := newTestManager(t)
	s, err := m.register(searchmodel.SearchSessionOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
}
