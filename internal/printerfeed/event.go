// Package printerfeed defines the internal line-delimited event shape
// the matcher/line-scanner produces for one file's search, and the
// scanner that walks a file's bytes producing that event stream. It is
// grounded on the original system's ripgrep-JSON-Lines integration
// (original_source/src/search/rg/json_output.rs), generalized: rather
// than shelling out to an external process and parsing its stdout, the
// scanner here calls straight into internal/matcher and produces the
// same begin/match/context/end event shape in-process, so
// internal/contentvisitor can stay decoupled from exactly how a line
// got matched.
package printerfeed

// Kind tags one Event, mirroring the begin/match/context/end message
// types ripgrep's own JSON Lines printer emits.
type Kind string

const (
	KindBegin   Kind = "begin"
	KindMatch   Kind = "match"
	KindContext Kind = "context"
	KindEnd     Kind = "end"
)

// Event is one record from scanning a single file. LineNumber is 1-based
// and zero when not applicable (Begin/End). Text carries the full line
// for a context line, or the line the match occurred on for a match
// (submatches within it are reported separately in Submatches); in
// multiline mode a match's Text is the matched span itself.
type Event struct {
	Kind       Kind
	LineNumber int
	Text       string
	Submatches []Submatch
}

// Submatch is one matched fragment's text and byte offsets within Text,
// used by only-matching mode to emit the fragment instead of the whole
// line.
type Submatch struct {
	Text  string
	Start int
	End   int
}
