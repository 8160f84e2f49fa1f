// Package diag provides process-wide diagnostic logging for the search
// engine and its tool layer.
//
// The engine core never logs through stdio directly: when the process is
// serving MCP over stdio, anything written to stdout corrupts the
// JSON-RPC stream. Diagnostics therefore always go to stderr (or wherever
// SetOutput points), whether or not StdioMode is set.
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu        sync.Mutex
	logger    = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	stdioMode bool
)

// SetStdioMode marks whether the process is currently serving a stdio
// transport. It does not change the destination (stderr is always safe
// alongside a stdio JSON-RPC stream on stdout); call sites can read it
// back with StdioMode().
func SetStdioMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	stdioMode = enabled
}

// StdioMode reports whether SetStdioMode(true) was called.
func StdioMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return stdioMode
}

// SetOutput redirects diagnostic output, primarily for tests that want
// to assert on emitted warnings.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Printf logs an informational line.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Output(2, fmt.Sprintf(format, args...))
}

// Warnf logs a warning line. Warnings are never fatal — the caller has
// already decided to continue; this only records that it happened.
func Warnf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Output(2, "WARN "+fmt.Sprintf(format, args...))
}

// Errorf logs an error line for conditions the caller is about to
// surface to its own caller as an error return.
func Errorf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Output(2, "ERROR "+fmt.Sprintf(format, args...))
}
