package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

func TestRegistry_InsertIfAbsentRejectsDuplicateID(t *testing.T) {
	r := newRegistry()
	s1 := newSession("dup", searchmodel.SearchSessionOptions{}, time.Now())
	s2 := newSession("dup", searchmodel.SearchSessionOptions{}, time.Now())

	assert.True(t, r.insertIfAbsent(s1))
	assert.False(t, r.insertIfAbsent(s2))
}

func TestRegistry_GetAndDelete(t *testing.T) {
	r := newRegistry()
	s := newSession("one", searchmodel.SearchSessionOptions{}, time.Now())
	require.True(t, r.insertIfAbsent(s))

	got, ok := r.get("one")
	require.True(t, ok)
	assert.Equal(t, s, got)

	r.delete("one")
	_, ok = r.get("one")
	assert.False(t, ok)
}

func TestRegistry_ForEachVisitsEverySession(t *testing.T) {
	r := newRegistry()
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, r.insertIfAbsent(newSession(id, searchmodel.SearchSessionOptions{}, time.Now())))
	}

	seen := map[string]bool{}
	r.forEach(func(s *Session) { seen[s.ID] = true })

	assert.Len(t, seen, 3)
}

func TestNewUUID_ProducesDistinctV4Values(t *testing.T) {
	a, err := newUUID()
	require.NoError(t, err)
	b, err := newUUID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	assert.Equal(t, byte('4'), a[14])
}

func TestBuildTypeFilter_UnknownGroupNameIsIgnored(t *testing.T) {
	f := buildTypeFilter([]string{"nonexistent-group"}, nil)
	require.NotNil(t, f)
	assert.True(t, f.Permits("anything.xyz"))
}

func TestBuildTypeFilter_AllowAndDenyGroups(t *testing.T) {
	f := buildTypeFilter([]string{"go"}, []string{"md"})
	assert.True(t, f.Permits("main.go"))
	assert.False(t, f.Permits("README.md"))
	assert.False(t, f.Permits("main.py"))
}

func TestBuildTypeFilter_NoGroupsReturnsNil(t *testing.T) {
	assert.Nil(t, buildTypeFilter(nil, nil))
}
