// Package ignore implements the layered ignore-rule matching the
// walker consults: VCS (.gitignore), per-directory (.ignore/.rgignore),
// parent directories walked upward from the search root, a global
// ignore file, and the VCS exclude file (.git/info/exclude). It is
// grounded on lci's internal/config/gitignore.go, generalized from a
// single-file parser into the layered stack spec.md §4.2 describes and
// rewired onto doublestar glob matching instead of a hand-rolled
// glob-to-regex translator.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is one parsed ignore-file line.
type Pattern struct {
	raw       string
	negate    bool
	directory bool
	anchored  bool // pattern contains a `/` before its last character, or begins with `/`
}

// ParsePattern parses one non-blank, non-comment gitignore-syntax line.
func ParsePattern(line string) Pattern {
	p := Pattern{raw: line}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") && len(line) > 1 {
		p.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		p.anchored = true
	}
	p.raw = line
	return p
}

// Matches reports whether rel (slash-separated, relative to the
// directory the pattern file lives in) matches this pattern.
func (p Pattern) Matches(rel string, isDir bool) bool {
	if p.directory && !isDir {
		// A directory-only pattern never matches a file directly (a file
		// named exactly "build" is not ignored by "build/") — it only
		// matches when one of the file's *ancestor* segments is the
		// ignored directory.
		return p.matchesAncestorComponent(rel)
	}
	if p.anchored {
		return p.globMatch(p.raw, rel)
	}
	// Unanchored: match against the final path component, or against
	// any segment of the path.
	base := rel
	if idx := strings.LastIndexByte(rel, '/'); idx >= 0 {
		base = rel[idx+1:]
	}
	if p.globMatch(p.raw, base) {
		return true
	}
	return p.matchesComponent(rel)
}

func (p Pattern) matchesComponent(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if p.globMatch(p.raw, seg) {
			return true
		}
	}
	return false
}

// matchesAncestorComponent is like matchesComponent but excludes the
// final segment, since that segment names a file, not a directory.
func (p Pattern) matchesAncestorComponent(rel string) bool {
	segs := strings.Split(rel, "/")
	if len(segs) <= 1 {
		return false
	}
	for _, seg := range segs[:len(segs)-1] {
		if p.globMatch(p.raw, seg) {
			return true
		}
	}
	return false
}

func (p Pattern) globMatch(pattern, name string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return pattern == name
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// Set is an ordered list of patterns from one ignore file; later
// patterns (including negations) override earlier ones, matching git's
// own last-match-wins semantics.
type Set struct {
	patterns []Pattern
}

// Load reads and parses an ignore file. A missing file is not an error
// — ignore files are optional at every layer.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Set{}, nil
		}
		return nil, err
	}
	defer f.Close()

	s := &Set{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.patterns = append(s.patterns, ParsePattern(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromLines builds a Set directly from pre-split lines, used for the
// synthetic global-ignore and built-in defaults.
func FromLines(lines []string) *Set {
	s := &Set{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.patterns = append(s.patterns, ParsePattern(line))
	}
	return s
}

// Ignored evaluates every pattern in order, last match wins.
func (s *Set) Ignored(rel string, isDir bool) bool {
	if s == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	ignored := false
	for _, p := range s.patterns {
		if p.Matches(rel, isDir) {
			ignored = !p.negate
		}
	}
	return ignored
}

// Empty reports whether the set has no patterns, letting callers skip
// evaluating it entirely.
func (s *Set) Empty() bool { return s == nil || len(s.patterns) == 0 }
