package session

import (
	"errors"
	"sort"
	"time"

	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// errRNGCompromised is returned when 10 consecutive fresh UUIDs all
// collide with an existing session ID, spec.md §4.7 step 3's
// "vanishingly unlikely" failure mode.
var errRNGCompromised = errors.New("session registry: RNG compromised (10 consecutive UUID collisions)")

// sortResults applies SortBy/SortDirection to ctx's result list in
// place, spec.md §4.7 step 6. Results missing the requested timestamp
// field (a possibility in file-name/enumeration modes without sort
// metadata collection) sort before those that have it in ascending
// order; descending reverses the sorted list, so they come last.
func sortResults(ctx *searchcontext.Context, by searchmodel.SortBy, direction searchmodel.SortDirection) {
	results := ctx.ResultsSlice(0, ctx.ResultsLen())
	if len(results) == 0 {
		return
	}

	less := func(i, j int) bool { return compareBy(results[i], results[j], by) }
	sort.SliceStable(results, less)
	if direction == searchmodel.SortDescending {
		reverse(results)
	}
	ctx.ReplaceResults(results)
}

func compareBy(a, b searchmodel.SearchResult, by searchmodel.SortBy) bool {
	switch by {
	case searchmodel.SortByModified:
		return lessTime(a.Modified, b.Modified)
	case searchmodel.SortByAccessed:
		return lessTime(a.Accessed, b.Accessed)
	case searchmodel.SortByCreated:
		return lessTime(a.Created, b.Created)
	default: // path
		return a.Path < b.Path
	}
}

func lessTime(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

func reverse(r []searchmodel.SearchResult) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
