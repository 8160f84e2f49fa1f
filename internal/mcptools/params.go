package mcptools

import "github.com/standardbeagle/codesearch/internal/searchmodel"

// startSearchParams mirrors spec.md §6's option list field-for-field, in
// the snake_case a tool caller sends over JSON. Manual struct +
// json.Unmarshal (rather than a generated binding) matches the
// teacher's handleNewSearch, which deserializes SearchParams by hand to
// give better error messages than a generic "unknown field" failure.
type startSearchParams struct {
	RootPath string `json:"root_path"`
	Pattern  string `json:"pattern"`

	SearchType string `json:"search_type"`

	FilePattern string   `json:"file_pattern"`
	Type        []string `json:"type"`
	TypeNot     []string `json:"type_not"`

	CaseMode string `json:"case_mode"`

	MaxResults *int `json:"max_results"`

	IncludeHidden bool `json:"include_hidden"`
	NoIgnore      bool `json:"no_ignore"`

	Context       int `json:"context"`
	BeforeContext int `json:"before_context"`
	AfterContext  int `json:"after_context"`

	TimeoutMs *int `json:"timeout_ms"`

	EarlyTermination bool `json:"early_termination"`

	LiteralSearch bool   `json:"literal_search"`
	BoundaryMode  string `json:"boundary_mode"`

	OutputMode string `json:"output_mode"`

	InvertMatch bool `json:"invert_match"`

	Engine string `json:"engine"`

	Preprocessor      string   `json:"preprocessor"`
	PreprocessorGlobs []string `json:"preprocessor_globs"`

	SearchZip  bool   `json:"search_zip"`
	BinaryMode string `json:"binary_mode"`

	Multiline   bool   `json:"multiline"`
	MaxFilesize *int64 `json:"max_filesize"`
	MaxDepth    *int   `json:"max_depth"`

	OnlyMatching  bool `json:"only_matching"`
	ListFilesOnly bool `json:"list_files_only"`

	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`

	Encoding string `json:"encoding"`

	ThreadCount    int  `json:"thread_count"`
	FollowSymlinks bool `json:"follow_symlinks"`
	OneFileSystem  bool `json:"one_file_system"`
}

// toOptions converts the wire params into SearchSessionOptions. Enum
// fields pass through as their string value directly since
// searchmodel's enums are themselves defined as strings. Enum values are
// not validated, here or in start_search: an unrecognized value raises
// no error and is handled by the default branch of whichever switch
// consumes it (for example, an unknown output_mode yields full output).
func (p startSearchParams) toOptions() searchmodel.SearchSessionOptions {
	return searchmodel.SearchSessionOptions{
		RootPath:    p.RootPath,
		Pattern:     p.Pattern,
		SearchType:  searchmodel.SearchType(p.SearchType),
		FilePattern: p.FilePattern,
		Type:        p.Type,
		TypeNot:     p.TypeNot,
		CaseMode:    searchmodel.CaseMode(p.CaseMode),
		MaxResults:  p.MaxResults,

		IncludeHidden: p.IncludeHidden,
		NoIgnore:      p.NoIgnore,

		Context:       p.Context,
		BeforeContext: p.BeforeContext,
		AfterContext:  p.AfterContext,

		TimeoutMs: p.TimeoutMs,

		EarlyTermination: p.EarlyTermination,

		LiteralSearch: p.LiteralSearch,
		BoundaryMode:  searchmodel.BoundaryMode(p.BoundaryMode),

		OutputMode: searchmodel.OutputMode(p.OutputMode),

		InvertMatch: p.InvertMatch,

		Engine: searchmodel.Engine(p.Engine),

		Preprocessor:      p.Preprocessor,
		PreprocessorGlobs: p.PreprocessorGlobs,

		SearchZip:  p.SearchZip,
		BinaryMode: searchmodel.BinaryMode(p.BinaryMode),

		Multiline:   p.Multiline,
		MaxFilesize: p.MaxFilesize,
		MaxDepth:    p.MaxDepth,

		OnlyMatching:  p.OnlyMatching,
		ListFilesOnly: p.ListFilesOnly,

		SortBy:        searchmodel.SortBy(p.SortBy),
		SortDirection: searchmodel.SortDirection(p.SortDirection),

		Encoding: p.Encoding,

		ThreadCount:    p.ThreadCount,
		FollowSymlinks: p.FollowSymlinks,
		OneFileSystem:  p.OneFileSystem,
	}
}
