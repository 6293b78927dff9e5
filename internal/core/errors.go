package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/csvsql/internal/engine"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// KindInternal is anything unclassified: I/O on the storage dir, bugs.
	KindInternal Kind = iota
	// KindValidation is a missing or malformed request field.
	KindValidation
	// KindNotFound is an unknown session or a vanished artifact.
	KindNotFound
	// KindEngine is an introspection or query failure reported by DuckDB.
	KindEngine
	// KindBusy means no ingest slot became free in time.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindEngine:
		return "engine"
	case KindBusy:
		return "busy"
	default:
		return "internal"
	}
}

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrNoFile           = errors.New("no file provided")
	ErrNoFileSelected   = errors.New("no file selected")
	ErrNotCSV           = errors.New("file must be a CSV")
	ErrMissingSessionID = errors.New("no session ID provided")
	ErrEmptyQuery       = errors.New("no query provided")
	ErrSessionNotFound  = errors.New("session not found")
	ErrArtifactMissing  = errors.New("file no longer available")

	// Request-level failures raised by the transport before a Service call.
	ErrFileTooLarge   = errors.New("file too large")
	ErrInvalidForm    = errors.New("invalid upload form")
	ErrInvalidRequest = errors.New("invalid request body")
)

// Error is returned by every Service operation.
// Op names the operation ("ingest", "query", "cleanup").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindEngine && e.Op == "ingest":
		return "Error processing CSV: " + e.Err.Error()
	case e.Kind == KindEngine && e.Op == "query":
		return "Query execution error: " + e.Err.Error()
	case errors.Is(e.Err, ErrSessionNotFound) && e.Op == "query":
		return "Session not found. Please upload a file first."
	case e.Kind == KindNotFound:
		// Already user facing: "session not found", "file no longer available".
		return capitalize(e.Err.Error())
	case e.Kind == KindValidation || e.Kind == KindBusy:
		return capitalize(e.Err.Error())
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IngestError and QueryError are the engine-level failures of Ingest and
// Query; both carry the DuckDB message verbatim.
func IngestError(err error) *Error { return &Error{Kind: KindEngine, Op: "ingest", Err: err} }

// QueryError wraps an engine failure of Query.
func QueryError(err error) *Error { return &Error{Kind: KindEngine, Op: "query", Err: err} }

// KindOf returns the Kind of err, KindInternal when err is not an *Error.
// Context and engine errors that escaped wrapping are classified too.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return KindEngine
	}
	if errors.Is(err, ErrTooManyUploads) {
		return KindBusy
	}
	return KindInternal
}

// EngineMessage returns the verbatim engine message inside err, or "".
func EngineMessage(err error) string {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		return engErr.Error()
	}
	return ""
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
