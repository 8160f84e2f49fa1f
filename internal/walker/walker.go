// Package walker implements the parallel directory walker spec.md §4.2
// describes: a pool of worker goroutines draining a shared queue of
// directories, honoring layered ignore rules, depth/size/type filters,
// hidden-file policy, and symlink-follow policy, reporting per-entry
// errors without aborting the walk. It is grounded on lci's
// internal/indexing/pipeline.go (symlink-cycle detection via
// filepath.EvalSymlinks, early directory pruning) generalized from a
// single filepath.Walk goroutine into the bounded worker pool spec.md
// requires, using golang.org/x/sync/errgroup the way
// lci/internal/mcp/integration_test.go does for bounded fan-out.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/codesearch/internal/ignore"
)

// Signal is returned by Visit to control the walk.
type Signal int

const (
	// Continue proceeds normally.
	Continue Signal = iota
	// Quit asks every worker to stop as soon as possible (early
	// termination, spec.md §4.5, or a reservation hitting max_results,
	// spec.md §4.3).
	Quit
)

// Entry is one file or directory the walker yields.
type Entry struct {
	Path  string // absolute
	Info  os.FileInfo
	IsDir bool
}

// Error is one non-fatal per-entry walk error, spec.md §4.2: "errors do
// not abort the walk."
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return e.Path + ": " + e.Err.Error() }

// TypeFilter whitelists/blacklists file extensions, spec.md §4.2.
type TypeFilter struct {
	Allow map[string]bool // built from Type groups; nil/empty = allow all
	Deny  map[string]bool // built from TypeNot groups
}

func (f *TypeFilter) Permits(path string) bool {
	if f == nil {
		return true
	}
	ext := extGroup(path)
	if len(f.Deny) > 0 && f.Deny[ext] {
		return false
	}
	if len(f.Allow) > 0 && !f.Allow[ext] {
		return false
	}
	return true
}

// Config configures one walk, spec.md §4.2.
type Config struct {
	Roots          []string
	MaxDepth       *int
	IncludeHidden  bool
	FollowSymlinks bool
	OneFileSystem  bool
	Ignore         ignore.Layers
	TypeFilter     *TypeFilter
	OverrideGlobs  []OverrideGlob // --glob/--iglob, later entries win
	MaxFilesize    *int64
	ThreadCount    int // 0 = auto (runtime.NumCPU())
}

// OverrideGlob is one --glob/--iglob entry; Negate means "!pattern".
type OverrideGlob struct {
	Pattern        string
	Negate         bool
	CaseInsensitive bool
}

// Visitor receives every entry and error the walk produces. It is
// invoked concurrently from multiple goroutines and must synchronize
// its own state (this is exactly the contract spec.md §4.3-§4.6
// visitors implement via thread-local buffers and shared atomics).
type Visitor interface {
	Visit(Entry) Signal
	VisitError(Error)
}

func resolveThreadCount(n int) int {
	if n > 0 {
		return n
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 4
}

// Walk runs the parallel walk to completion or until ctx is canceled or
// a Visitor returns Quit. It returns nil: an unreadable root, like any
// per-entry problem, is reported through VisitError instead.
func Walk(ctx context.Context, cfg Config, v Visitor) error {
	stacks := make(map[string]*ignore.Stack, len(cfg.Roots))
	for _, root := range cfg.Roots {
		layers := cfg.Ignore
		st, err := ignore.Build(root, layers)
		if err != nil {
			v.VisitError(Error{Path: root, Err: err})
			continue
		}
		stacks[root] = st
	}

	q := newQueue()
	for _, root := range cfg.Roots {
		info, err := os.Lstat(root)
		if err != nil {
			v.VisitError(Error{Path: root, Err: err})
			continue
		}
		q.push(dirTask{path: root, root: root, depth: 0, info: info})
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	var quitting int32
	signalQuit := func() {
		atomic.StoreInt32(&quitting, 1)
		quitOnce.Do(func() { close(quit) })
	}

	w := &worker{
		cfg:     cfg,
		stacks:  stacks,
		visitor: v,
		q:       q,
		quit:    quit,
	}

	g, gctx := errgroup.WithContext(ctx)
	n := resolveThreadCount(cfg.ThreadCount)
	visited := newVisitedSet()
	w.visited = visited

	go func() {
		select {
		case <-quit:
		case <-gctx.Done():
		}
		q.Close()
	}()

	for i := 0; i < n; i++ {
		g.Go(func() error {
			for {
				task, ok := q.pop()
				if !ok {
					return nil
				}
				sig := w.processDir(gctx, task)
				q.done()
				if sig == Quit {
					signalQuit()
				}
			}
		})
	}
	return g.Wait()
}

type dirTask struct {
	path  string
	root  string
	depth int
	info  os.FileInfo
}

type worker struct {
	cfg     Config
	stacks  map[string]*ignore.Stack
	visitor Visitor
	q       *queue
	quit    chan struct{}
	visited *visitedSet
}

func (w *worker) processDir(ctx context.Context, task dirTask) Signal {
	select {
	case <-ctx.Done():
		return Quit
	case <-w.quit:
		return Quit
	default:
	}

	entries, err := os.ReadDir(task.path)
	if err != nil {
		w.visitor.VisitError(Error{Path: task.path, Err: err})
		return Continue
	}

	stack := w.stacks[task.root]

	for _, de := range entries {
		select {
		case <-w.quit:
			return Quit
		default:
		}

		name := de.Name()
		if !w.cfg.IncludeHidden && isHidden(name) {
			continue
		}

		full := filepath.Join(task.path, name)
		info, err := de.Info()
		if err != nil {
			w.visitor.VisitError(Error{Path: full, Err: err})
			continue
		}

		isDir := info.IsDir()
		isSymlink := info.Mode()&os.ModeSymlink != 0
		if isSymlink {
			resolved, err := filepath.EvalSymlinks(full)
			if err != nil {
				w.visitor.VisitError(Error{Path: full, Err: err})
				continue
			}
			if !w.cfg.FollowSymlinks {
				continue
			}
			if st, err := os.Stat(resolved); err == nil {
				isDir = st.IsDir()
				info = st
			}
			if isDir && !w.visited.claim(resolved) {
				continue // symlink cycle
			}
		}

		rel, relErr := filepath.Rel(task.root, full)
		if relErr != nil {
			rel = full
		}
		rel = filepath.ToSlash(rel)

		// Ignore patterns loaded per-directory (ForDirectory) match
		// against a path relative to the directory they came from, not
		// the walk root — an anchored pattern like "/build" in
		// sub/.gitignore means sub/build, not root/build. full is
		// always a direct child of task.path, so that's just name.
		if stack != nil && stack.Ignored(task.path, filepath.ToSlash(name), isDir) {
			continue
		}
		if !matchesOverrides(w.cfg.OverrideGlobs, rel) {
			continue
		}

		if isDir {
			if w.cfg.MaxDepth != nil && task.depth+1 > *w.cfg.MaxDepth {
				continue
			}
			w.q.push(dirTask{path: full, root: task.root, depth: task.depth + 1, info: info})
			continue
		}

		if !w.cfg.TypeFilter.Permits(full) {
			continue
		}
		if w.cfg.MaxFilesize != nil && info.Size() > *w.cfg.MaxFilesize {
			continue
		}

		sig := w.visitor.Visit(Entry{Path: full, Info: info, IsDir: false})
		if sig == Quit {
			return Quit
		}
	}
	return Continue
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// visitedSet tracks resolved symlink targets already descended into,
// preventing infinite loops (spec.md doesn't name this explicitly but
// §4.2's symlink-follow policy implies it; grounded on
// lci/internal/indexing/pipeline.go's visitedDirs map).
type visitedSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newVisitedSet() *visitedSet { return &visitedSet{seen: make(map[string]bool)} }

func (v *visitedSet) claim(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[path] {
		return false
	}
	v.seen[path] = true
	return true
}
