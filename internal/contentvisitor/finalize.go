package contentvisitor

import (
	"github.com/standardbeagle/codesearch/internal/searchcontext"
	"github.com/standardbeagle/codesearch/internal/searchmodel"
)

// Finalize implements spec.md §4.4's count-per-file finalization: after
// the walk completes, file_counts is transformed into one synthetic
// Content result per file (line repurposed to carry the count) and
// total_matches is overwritten with the unique-file count so the
// external API's "results" number stays consistent with the replaced
// list. A no-op for any other output mode.
func Finalize(sctx *searchcontext.Context, outputMode searchmodel.OutputMode) {
	if outputMode != searchmodel.OutputCountPerFile {
		return
	}
	counts := sctx.FileCounts()
	results := make([]searchmodel.SearchResult, 0, len(counts))
	for path, data := range counts {
		count := data.Count
		results = append(results, searchmodel.SearchResult{
			Path:     path,
			Line:     &count,
			Type:     searchmodel.ResultContent,
			Modified: data.Modified,
			Accessed: data.Accessed,
			Created:  data.Created,
		})
	}
	sctx.ReplaceResults(results)
	sctx.SetTotalMatches(int64(len(results)))
}
