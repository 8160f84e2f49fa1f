package ignore

import (
	"os"
	"path/filepath"
	"sync"
)

// Layers toggles which ignore layers are consulted, spec.md §4.2.
type Layers struct {
	VCS         bool // .gitignore
	PerDirectory bool // .ignore / .rgignore
	Parent      bool // .gitignore in ancestor directories, up to the VCS root
	Global      bool // a user-wide ignore file
	VCSExclude  bool // .git/info/exclude
}

// DisableAll is the no_ignore=true behavior: every layer off.
func DisableAll() Layers { return Layers{} }

// DefaultLayers matches ripgrep's default posture: every layer on.
func DefaultLayers() Layers {
	return Layers{VCS: true, PerDirectory: true, Parent: true, Global: true, VCSExclude: true}
}

// Stack is the compiled set of ignore Sets that apply to a given search
// root. Its base layers are built once before the walk starts (spec.md
// §4.2/§4.3); per-directory Sets are loaded into its cache by the
// workers as the walk reaches each directory.
type Stack struct {
	root   string
	layers Layers

	// cache memoizes the loaded .gitignore/.ignore/.rgignore Sets per
	// directory. Multiple workers can descend into sibling directories
	// concurrently, so access is guarded by mu.
	mu    sync.Mutex
	cache map[string][]*Set

	global *Set
}

// Build loads the ancestor/global/VCS-exclude layers once (cheap, small
// fixed number of files) and prepares an empty per-directory cache for
// the walk to fill in as it descends.
func Build(root string, layers Layers) (*Stack, error) {
	s := &Stack{root: root, layers: layers, cache: make(map[string][]*Set)}

	var ancestorSets []*Set
	if layers.Parent {
		ancestorSets = loadAncestorChain(root)
	}

	var vcsExclude *Set
	if layers.VCSExclude {
		if gitRoot := findVCSRoot(root); gitRoot != "" {
			set, err := Load(filepath.Join(gitRoot, ".git", "info", "exclude"))
			if err == nil {
				vcsExclude = set
			}
		}
	}

	if layers.Global {
		s.global = loadGlobalIgnore()
	}

	base := []*Set{}
	base = append(base, ancestorSets...)
	if vcsExclude != nil {
		base = append(base, vcsExclude)
	}
	s.cache[""] = base // sentinel: layers that apply at every directory
	return s, nil
}

// loadAncestorChain loads .gitignore from `dir`'s parent and each of its
// ancestors up to the nearest one containing .git (or up to the
// filesystem root when there is none), outermost first, so closer
// ancestors can override (negate) farther ones — matching git's
// stacking order (spec.md "parent" layer). When `dir` itself contains
// .git it loads nothing.
func loadAncestorChain(dir string) []*Set {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return nil // dir is the repository root
	}
	var chain []string
	cur := filepath.Dir(dir)
	for {
		chain = append(chain, cur)
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			break // stop at the repository root
		}
		cur = parent
	}
	var sets []*Set
	for i := len(chain) - 1; i >= 0; i-- {
		set, err := Load(filepath.Join(chain[i], ".gitignore"))
		if err == nil && !set.Empty() {
			sets = append(sets, set)
		}
	}
	return sets
}

func findVCSRoot(dir string) string {
	cur := dir
	for {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
}

func loadGlobalIgnore() *Set {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	candidates := []string{
		filepath.Join(home, ".config", "git", "ignore"),
		filepath.Join(home, ".gitignore_global"),
	}
	for _, c := range candidates {
		if set, err := Load(c); err == nil && !set.Empty() {
			return set
		}
	}
	return nil
}

// ForDirectory returns the Sets applicable when evaluating entries
// directly inside dir (an absolute path under the search root): the
// base layer (ancestors + VCS-exclude + global) plus, if enabled, dir's
// own .gitignore/.ignore/.rgignore, loaded and cached on first visit.
func (s *Stack) ForDirectory(dir string) []*Set {
	s.mu.Lock()
	if sets, ok := s.cache[dir]; ok {
		s.mu.Unlock()
		return sets
	}
	s.mu.Unlock()

	sets := append([]*Set{}, s.cache[""]...)
	if s.global != nil {
		sets = append(sets, s.global)
	}

	if s.layers.VCS {
		if set, err := Load(filepath.Join(dir, ".gitignore")); err == nil && !set.Empty() {
			sets = append(sets, set)
		}
	}
	if s.layers.PerDirectory {
		for _, name := range []string{".ignore", ".rgignore"} {
			if set, err := Load(filepath.Join(dir, name)); err == nil && !set.Empty() {
				sets = append(sets, set)
			}
		}
	}

	s.mu.Lock()
	s.cache[dir] = sets
	s.mu.Unlock()
	return sets
}

// Ignored evaluates every applicable layer for dir, in registration
// order (ancestors outermost-first, then VCS-exclude, then the global
// file, then this directory's own files), so a closer, more specific
// rule can override a farther one.
func (s *Stack) Ignored(dir, rel string, isDir bool) bool {
	ignored := false
	for _, set := range s.ForDirectory(dir) {
		// Sets don't know their own negation-precedence across files;
		// each file's last-match-wins locally, and each subsequent
		// file's result can still override an earlier file's, matching
		// git's behavior that a later, more specific ignore file wins.
		if matched, isNegate := set.evaluateWithMatch(rel, isDir); matched {
			ignored = !isNegate
		}
	}
	return ignored
}

// evaluateWithMatch is like Ignored but also reports whether *any*
// pattern in the set matched at all, so the caller can distinguish "no
// opinion" from "explicitly un-ignored".
func (s *Set) evaluateWithMatch(rel string, isDir bool) (matched bool, negate bool) {
	if s == nil {
		return false, false
	}
	for _, p := range s.patterns {
		if p.Matches(filepath.ToSlash(rel), isDir) {
			matched = true
			negate = p.negate
		}
	}
	return matched, negate
}
