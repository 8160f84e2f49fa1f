// Package searchmodel holds the wire-level data types shared by every
// layer of the search engine: result records, per-entry errors, session
// options, and the small enums that drive dialect/engine/output-mode
// selection. Nothing in this package holds a lock or a goroutine — it is
// pure data, imported by internal/matcher, the visitors,
// internal/session and internal/mcptools alike.
package searchmodel

import "time"

// ResultType tags what a SearchResult represents.
type ResultType string

const (
	ResultFile    ResultType = "File"
	ResultContent ResultType = "Content"
	ResultList    ResultType = "FileList"
)

// SearchResult is one emitted record, matching spec.md §3.
type SearchResult struct {
	Path             string     `json:"path"`
	Line             *int       `json:"line,omitempty"`
	Match            *string    `json:"match,omitempty"`
	Type             ResultType `json:"type"`
	IsContext        bool       `json:"is_context,omitempty"`
	IsBinary         bool       `json:"is_binary,omitempty"`
	BinarySuppressed bool       `json:"binary_suppressed,omitempty"`
	Modified         *time.Time `json:"modified,omitempty"`
	Accessed         *time.Time `json:"accessed,omitempty"`
	Created          *time.Time `json:"created,omitempty"`
}

// ErrorCategory classifies a non-fatal per-entry walk error.
type ErrorCategory string

const (
	ErrorPermissionDenied   ErrorCategory = "permission_denied"
	ErrorIO                 ErrorCategory = "io_error"
	ErrorInvalidPath        ErrorCategory = "invalid_path"
	ErrorInitialization     ErrorCategory = "initialization_error"
	ErrorUnknown            ErrorCategory = "unknown"
)

// SearchError is one recorded traversal error, matching spec.md §3.
type SearchError struct {
	Path     string        `json:"path,omitempty"`
	Message  string        `json:"message"`
	Category ErrorCategory `json:"category"`
}

// MaxStoredErrors is the cap on detailed errors retained per session
// (spec.md §6 "Configured constants").
const MaxStoredErrors = 100

// FileCountData is the count-per-file-mode aggregate for a single file,
// matching spec.md §3.
type FileCountData struct {
	Count    int
	Modified *time.Time
	Accessed *time.Time
	Created  *time.Time
}

// SearchType selects the walker/visitor combination dispatched in §4.7
// step 4.
type SearchType string

const (
	SearchTypeFiles   SearchType = "files"
	SearchTypeContent SearchType = "content"
)

// OutputMode selects the result shape, spec.md §6.
type OutputMode string

const (
	OutputFull          OutputMode = "full"
	OutputFilesOnly     OutputMode = "files-only"
	OutputCountPerFile  OutputMode = "count-per-file"
)

// CaseMode selects case sensitivity, spec.md §4.1/§6.
type CaseMode string

const (
	CaseSensitive   CaseMode = "sensitive"
	CaseInsensitive CaseMode = "insensitive"
	CaseSmart       CaseMode = "smart"
)

// BoundaryMode selects the boundary constraint applied to substring and
// name matches, spec.md §4.1/§4.5.
type BoundaryMode string

const (
	BoundaryNone BoundaryMode = "none"
	BoundaryWord BoundaryMode = "word"
	BoundaryLine BoundaryMode = "line"
)

// Engine selects the regex engine preference, spec.md §4.1/§6.
type Engine string

const (
	EngineAuto    Engine = "auto"
	EngineDefault Engine = "default"
	EnginePCRE    Engine = "pcre-like"
)

// Dialect is the inferred or forced pattern dialect, spec.md §4.1.
type Dialect string

const (
	DialectRegex     Dialect = "regex"
	DialectGlob      Dialect = "glob"
	DialectSubstring Dialect = "substring"
)

// BinaryMode controls binary-file handling, spec.md §4.4 step 2.
type BinaryMode string

const (
	BinaryAuto             BinaryMode = "auto"
	BinarySearchAndSuppress BinaryMode = "binary"
	BinaryText             BinaryMode = "text"
)

// SortBy selects the field used when SortDirection is applied, spec.md §6.
type SortBy string

const (
	SortByPath     SortBy = "path"
	SortByModified SortBy = "modified"
	SortByAccessed SortBy = "accessed"
	SortByCreated  SortBy = "created"
)

// SortDirection selects ascending/descending order, spec.md §6.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// SearchSessionOptions is the input to StartSearch, enumerated in
// spec.md §6.
type SearchSessionOptions struct {
	RootPath string
	Pattern  string

	SearchType SearchType

	FilePattern string
	Type        []string
	TypeNot     []string

	CaseMode CaseMode

	MaxResults *int

	IncludeHidden bool
	NoIgnore      bool

	Context       int
	BeforeContext int
	AfterContext  int

	TimeoutMs *int

	EarlyTermination bool

	LiteralSearch bool
	BoundaryMode  BoundaryMode

	OutputMode OutputMode

	InvertMatch bool

	Engine Engine

	Preprocessor      string
	PreprocessorGlobs []string

	SearchZip  bool
	BinaryMode BinaryMode

	Multiline   bool
	MaxFilesize *int64
	MaxDepth    *int

	OnlyMatching   bool
	ListFilesOnly  bool

	SortBy        SortBy
	SortDirection SortDirection

	Encoding string

	ThreadCount int
	FollowSymlinks bool
	OneFileSystem  bool
}

// ResolvedContext returns the effective before/after context line counts,
// honoring the rule that -A/-B override -C (spec.md §6).
func (o SearchSessionOptions) ResolvedContext() (before, after int) {
	before, after = o.Context, o.Context
	if o.BeforeContext > 0 {
		before = o.BeforeContext
	}
	if o.AfterContext > 0 {
		after = o.AfterContext
	}
	return before, after
}

// SessionSummary is one row of ListActiveSessions, spec.md §4.7.
type SessionSummary struct {
	ID            string
	SearchType    SearchType
	Pattern       string
	IsComplete    bool
	IsError       bool
	ElapsedMicros int64
	ResultCount   int
	TimeoutMs     *int
	WasIncomplete bool
}

// StartSearchResponse is the output of StartSearch, spec.md §6.
type StartSearchResponse struct {
	SessionID      string
	Results        []SearchResult
	TotalMatches   int64
	TotalFiles     int64
	RuntimeMicros  int64
	ResultsLimited bool
}

// GetMoreResultsResponse is the output of GetMoreResults, spec.md §6.
type GetMoreResultsResponse struct {
	Results       []SearchResult
	HasMore       bool
	TotalMatches  int64
	TotalFiles    int64
	Errors        []SearchError
	ErrorCount    int64
	IsComplete    bool
	IsError       bool
	ErrorMessage  string
	WasIncomplete bool
}
