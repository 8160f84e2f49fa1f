package walker

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matchesOverrides applies the --glob/--iglob override list, spec.md
// §4.2. An empty list matches everything. Later entries take priority
// over earlier ones (ripgrep's own override semantics), and a
// non-negated entry matching the path means "include"; a negated entry
// matching means "exclude" — the last override to match wins, and if
// none match, the path is allowed only when every entry so far was
// itself a negation-only list (i.e. the overrides were purely
// exclusionary).
func matchesOverrides(globs []OverrideGlob, rel string) bool {
	if len(globs) == 0 {
		return true
	}

	hasInclude := false
	for _, g := range globs {
		if !g.Negate {
			hasInclude = true
			break
		}
	}

	decided := false
	allow := !hasInclude
	for _, g := range globs {
		name := rel
		pattern := g.Pattern
		if g.CaseInsensitive {
			name = strings.ToLower(name)
			pattern = strings.ToLower(pattern)
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil || !ok {
			continue
		}
		decided = true
		allow = !g.Negate
	}
	_ = decided
	return allow
}

// extGroup extracts the matching group key used by TypeFilter: the
// file's extension without its leading dot, lower-cased. Built-in
// groups (rust, python, md, ...) are resolved by the caller that builds
// TypeFilter.Allow/Deny from group names; this only normalizes a path
// down to the key those maps are indexed by.
func extGroup(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[idx+1:])
}
