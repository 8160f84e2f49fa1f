package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Ignored_LastMatchWins(t *testing.T) {
	s := FromLines([]string{
		"*.log",
		"!keep.log",
	})
	assert.True(t, s.Ignored("debug.log", false))
	assert.False(t, s.Ignored("keep.log", false))
}

func TestSet_Ignored_DirectoryOnly(t *testing.T) {
	s := FromLines([]string{"build/"})
	assert.True(t, s.Ignored("build", true))
	assert.False(t, s.Ignored("build", false))
}

func TestSet_Ignored_Anchored(t *testing.T) {
	s := FromLines([]string{"/target"})
	assert.True(t, s.Ignored("target", false))
	assert.False(t, s.Ignored("nested/target", false))
}

func TestSet_Ignored_UnanchoredMatchesAnyComponent(t *testing.T) {
	s := FromLines([]string{"node_modules"})
	assert.True(t, s.Ignored("node_modules", true))
	assert.True(t, s.Ignored("a/b/node_modules", true))
	assert.True(t, s.Ignored("a/node_modules/pkg.json", false))
}

func TestSet_Empty(t *testing.T) {
	s := FromLines(nil)
	assert.True(t, s.Empty())
	assert.False(t, s.Ignored("anything", false))
}

func TestLoad_MissingFileIsNotError(t *testing.T) {
	s, err := Load("/no/such/path/.gitignore")
	assert.NoError(t, err)
	assert.True(t, s.Empty())
}
