// Package apperr defines the synchronous error taxonomy returned from
// StartSearch/GetMoreResults/TerminateSearch before or outside of a
// session's lifetime. It is distinct from searchmodel.SearchError, which
// records non-fatal per-entry errors accumulated *during* a walk.
package apperr

import "fmt"

// Kind classifies a synchronous, request-aborting error.
type Kind string

const (
	// KindConfiguration covers invalid patterns, encodings, sizes, or
	// depths supplied in SearchSessionOptions.
	KindConfiguration Kind = "configuration"
	// KindPathDenied covers a root path rejected by the external path
	// validator (not found, outside an allow-list, etc).
	KindPathDenied Kind = "path_denied"
	// KindNotFound covers a session ID unknown to the registry.
	KindNotFound Kind = "not_found"
	// KindInternal covers anything else — registry exhaustion,
	// unexpected panics recovered at a boundary, and the like.
	KindInternal Kind = "internal"
)

// Error is a synchronous, request-aborting error carrying enough context
// to let a caller decide whether to retry.
type Error struct {
	Kind        Kind
	Op          string
	Err         error
	Recoverable bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error for op/kind wrapping err.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Configuration is a convenience constructor for KindConfiguration.
func Configuration(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// PathDenied is a convenience constructor for KindPathDenied.
func PathDenied(op string, err error) *Error {
	return &Error{Op: op, Kind: KindPathDenied, Err: err}
}

// NotFound is a convenience constructor for KindNotFound.
func NotFound(op string, sessionID string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: fmt.Errorf("session %q not found", sessionID)}
}

// Internal is a convenience constructor for KindInternal.
func Internal(op string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Err: err, Recoverable: false}
}
