package session

import "github.com/standardbeagle/codesearch/internal/walker"

// typeGroups is a small, fixed table of named extension groups backing
// SearchSessionOptions.Type/TypeNot (spec.md §6). This is a
// deliberately narrowed stand-in for ripgrep's few-hundred-entry
// built-in type database (original_source/src/search/rg/flags/defs/
// filter.rs and friends): spec.md calls these "named groups" without
// enumerating them, and reproducing ripgrep's full table wholesale
// would be reference-implementation trivia rather than anything this
// spec's scenarios exercise.
var typeGroups = map[string][]string{
	"go":     {"go"},
	"rust":   {"rs"},
	"py":     {"py", "pyi"},
	"python": {"py", "pyi"},
	"js":     {"js", "jsx", "mjs", "cjs"},
	"ts":     {"ts", "tsx"},
	"java":   {"java"},
	"c":      {"c", "h"},
	"cpp":    {"cpp", "cc", "cxx", "hpp", "hh"},
	"md":     {"md", "markdown"},
	"json":   {"json"},
	"yaml":   {"yaml", "yml"},
	"html":   {"html", "htm"},
	"css":    {"css", "scss", "sass"},
	"sh":     {"sh", "bash"},
	"toml":   {"toml"},
	"config": {"cfg", "conf", "ini"},
}

// buildTypeFilter translates the Type/TypeNot named-group lists into a
// walker.TypeFilter, unknown group names contributing nothing (rather
// than erroring, matching spec.md's "errors do not abort the walk"
// posture for anything short of genuine configuration failure).
func buildTypeFilter(include, exclude []string) *walker.TypeFilter {
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}
	f := &walker.TypeFilter{}
	for _, name := range include {
		for _, ext := range typeGroups[name] {
			if f.Allow == nil {
				f.Allow = make(map[string]bool)
			}
			f.Allow[ext] = true
		}
	}
	for _, name := range exclude {
		for _, ext := range typeGroups[name] {
			if f.Deny == nil {
				f.Deny = make(map[string]bool)
			}
			f.Deny[ext] = true
		}
	}
	return f
}
