package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack_ForDirectory_UsesPerDirectoryGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))

	st, err := Build(root, DefaultLayers())
	require.NoError(t, err)

	require.True(t, st.Ignored(root, "debug.log", false))
	require.False(t, st.Ignored(root, "main.go", false))
}

func TestStack_DisableAll_IgnoresNothing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))

	st, err := Build(root, DisableAll())
	require.NoError(t, err)

	require.False(t, st.Ignored(root, "debug.log", false))
}

func TestStack_ForDirectory_CachesResult(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".ignore"), []byte("vendor\n"), 0o644))

	st, err := Build(root, DefaultLayers())
	require.NoError(t, err)

	first := st.ForDirectory(root)
	second := st.ForDirectory(root)
	require.Equal(t, len(first), len(second))
}

func TestStack_NestedGitignoreAppliesWithinItsSubtree(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, ".gitignore"), []byte("*.tmp\n"), 0o644))

	st, err := Build(root, DefaultLayers())
	require.NoError(t, err)

	require.True(t, st.Ignored(sub, "scratch.tmp", false))
	require.False(t, st.Ignored(root, "scratch.tmp", false))
}
