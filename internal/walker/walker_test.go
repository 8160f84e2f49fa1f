package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codesearch/internal/ignore"
)

type collectingVisitor struct {
	mu     sync.Mutex
	paths  []string
	errs   []Error
	quitAt string // return Quit once this path is visited
}

func (v *collectingVisitor) Visit(e Entry) Signal {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paths = append(v.paths, e.Path)
	if v.quitAt != "" && e.Path == v.quitAt {
		return Quit
	}
	return Continue
}

func (v *collectingVisitor) VisitError(e Error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errs = append(v.errs, e)
}

func (v *collectingVisitor) sorted() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := append([]string{}, v.paths...)
	sort.Strings(out)
	return out
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestWalk_VisitsAllRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":        "package a",
		"b.go":        "package b",
		"sub/c.go":    "package c",
		"sub/deep/d.go": "package d",
	})

	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DisableAll(), ThreadCount: 2}
	require.NoError(t, Walk(context.Background(), cfg, v))

	got := v.sorted()
	assert.Len(t, got, 4)
}

func TestWalk_HonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "*.log\n",
		"keep.go":    "package keep",
		"drop.log":   "noise",
	})

	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DefaultLayers(), ThreadCount: 2}
	require.NoError(t, Walk(context.Background(), cfg, v))

	got := v.sorted()
	for _, p := range got {
		assert.NotContains(t, p, "drop.log")
	}
}

func TestWalk_NestedGitignoreAnchoredPatternMatchesItsOwnSubtree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"sub/.gitignore": "/build\n",
		"sub/build":      "generated",
		"sub/keep.go":    "package sub",
	})

	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DefaultLayers(), ThreadCount: 2}
	require.NoError(t, Walk(context.Background(), cfg, v))

	got := v.sorted()
	for _, p := range got {
		assert.NotEqual(t, "build", filepath.Base(p))
	}
	found := false
	for _, p := range got {
		if filepath.Base(p) == "keep.go" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWalk_NoIgnoreBypassesGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "*.log\n",
		"drop.log":   "noise",
	})

	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DisableAll(), ThreadCount: 2}
	require.NoError(t, Walk(context.Background(), cfg, v))

	found := false
	for _, p := range v.sorted() {
		if filepath.Base(p) == "drop.log" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWalk_HiddenFilesExcludedByDefault(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".hidden": "secret",
		"visible": "data",
	})

	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DisableAll(), ThreadCount: 2}
	require.NoError(t, Walk(context.Background(), cfg, v))

	for _, p := range v.sorted() {
		assert.NotEqual(t, ".hidden", filepath.Base(p))
	}
}

func TestWalk_MaxDepthLimitsDescent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":          "x",
		"sub/b.go":      "x",
		"sub/deep/c.go": "x",
	})

	depth := 0
	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DisableAll(), MaxDepth: &depth, ThreadCount: 2}
	require.NoError(t, Walk(context.Background(), cfg, v))

	got := v.sorted()
	assert.Len(t, got, 1)
}

func TestWalk_ContextCancellationStopsEarly(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 50; i++ {
		files[filepath.Join("d", string(rune('a'+i%26)), "f.go")] = "x"
	}
	writeTree(t, root, files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := &collectingVisitor{}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DisableAll(), ThreadCount: 2}
	err := Walk(ctx, cfg, v)
	assert.NoError(t, err)
	assert.Empty(t, v.sorted())
}

func TestWalk_VisitorQuitStopsWalk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go": "x",
		"b.go": "x",
		"c.go": "x",
	})

	v := &collectingVisitor{quitAt: filepath.Join(root, "a.go")}
	cfg := Config{Roots: []string{root}, Ignore: ignore.DisableAll(), ThreadCount: 1}
	require.NoError(t, Walk(context.Background(), cfg, v))
	assert.Len(t, v.sorted(), 1)
}

func TestWalk_ReportsErrorForUnreadableRoot(t *testing.T) {
	v := &collectingVisitor{}
	cfg := Config{Roots: []string{"/nonexistent/path/for/walker/test"}, Ignore: ignore.DisableAll()}
	require.NoError(t, Walk(context.Background(), cfg, v))
	assert.NotEmpty(t, v.errs)
}

func TestMatchesOverrides(t *testing.T) {
	globs := []OverrideGlob{
		{Pattern: "*.go"},
		{Pattern: "*_test.go", Negate: true},
	}
	assert.True(t, matchesOverrides(globs, "main.go"))
	assert.False(t, matchesOverrides(globs, "main_test.go"))
	assert.True(t, matchesOverrides(nil, "x.go")) // empty list always matches
}

func TestExtGroup(t *testing.T) {
	assert.Equal(t, "go", extGroup("/a/b/main.go"))
	assert.Equal(t, "", extGroup("/a/b/Makefile"))
}
