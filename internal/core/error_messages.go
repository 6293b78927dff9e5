package core

// # Error Codes Reference
//
// Every error response carries a code users can quote to support staff.
// The "error" field of a response keeps the full message (engine text
// included); the code and action come from the table below.
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Missing session: No session ID provided
//	         Action: Upload a CSV file first and use the returned session_id
//	         Patterns: "no session id provided"
//
//	REQ002 - Missing query: No query provided
//	         Action: Enter a SQL query, for example SELECT * FROM tablename
//	         Patterns: "no query provided"
//
//	REQ003 - Malformed body: Request body is not valid JSON
//	         Action: Send {"session_id": "...", "query": "..."}
//	         Patterns: "invalid request body"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Not a CSV: File must have a .csv extension
//	          Patterns: "file must be a csv"
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided", "no file selected"
//	FILE005 - Malformed upload: the multipart form could not be parsed
//	          Patterns: "invalid upload form"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found
//	         Patterns: "session not found"
//	SES002 - File no longer available: the session's file was removed
//	         Patterns: "file no longer available"
//
// # Engine Errors (SQL001-SQL099, CSV001-CSV099)
//
// DuckDB prefixes its messages with an error class; those prefixes are the
// patterns. They are listed before the generic wrappers so they win.
//
//	SQL001 - Syntax error            Patterns: "parser error"
//	SQL002 - Unknown column/function Patterns: "binder error"
//	SQL003 - Unknown table/function  Patterns: "catalog error"
//	SQL004 - Type conversion failed  Patterns: "conversion error"
//	SQL005 - Out of memory           Patterns: "out of memory"
//	SQL006 - Query interrupted       Patterns: "interrupt", "context deadline exceeded", "context canceled"
//	CSV002 - CSV could not be parsed Patterns: "invalid input error"
//	CSV003 - File could not be read  Patterns: "io error"
//	CSV001 - Generic ingest failure  Patterns: "error processing csv"
//	SQL000 - Generic query failure   Patterns: "query execution error"
//
// # Capacity (UPL002, RATE001)
//
//	UPL002 - System busy: Too many uploads in progress
//	         Patterns: "too many concurrent uploads"
//	RATE001 - Rate limited
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the server log for the request id.

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps error text (case-insensitive) to user messages.
// The first matching pattern wins, so specific patterns come first.
var errorPatterns = []errorPattern{
	// Request validation
	{"no session id provided", UserMessage{"No session ID provided", "Upload a CSV file first and use the returned session_id", "REQ001"}},
	{"no query provided", UserMessage{"No query provided", "Enter a SQL query, for example SELECT * FROM tablename", "REQ002"}},
	{"invalid request body", UserMessage{"Request body is not valid JSON", `Send {"session_id": "...", "query": "..."}`, "REQ003"}},

	// Files
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Split the file or ask an administrator to raise UPLOAD_MAX_FILE_SIZE", "FILE001"}},
	{"request body too large", UserMessage{"File exceeds the maximum upload size", "Split the file or ask an administrator to raise UPLOAD_MAX_FILE_SIZE", "FILE001"}},
	{"file must be a csv", UserMessage{"File must be a CSV", "Upload a file with a .csv extension", "FILE002"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a CSV file to upload", "FILE004"}},
	{"no file selected", UserMessage{"No file was selected", "Please select a CSV file to upload", "FILE004"}},
	{"invalid upload form", UserMessage{"The upload could not be read", "Send the file as multipart/form-data in a field named file", "FILE005"}},

	// Sessions
	{"session not found", UserMessage{"Session not found", "Upload the file again to start a new session", "SES001"}},
	{"file no longer available", UserMessage{"The uploaded file is no longer available", "Upload the file again to start a new session", "SES002"}},

	// Engine classes
	{"parser error", UserMessage{"The query has a syntax error", "Check the SQL near the position reported in the error", "SQL001"}},
	{"binder error", UserMessage{"The query references an unknown column or function", "Check column names against the columns returned at upload", "SQL002"}},
	{"catalog error", UserMessage{"The query references an unknown table or function", "Use tablename to refer to your uploaded file", "SQL003"}},
	{"conversion error", UserMessage{"A value could not be converted to the requested type", "Use TRY_CAST or filter out malformed values", "SQL004"}},
	{"out of memory", UserMessage{"The query ran out of memory", "Add a LIMIT or aggregate the data", "SQL005"}},
	{"interrupt", UserMessage{"The query was interrupted", "Simplify the query or try again", "SQL006"}},
	{"context deadline exceeded", UserMessage{"The query timed out", "Add a LIMIT or simplify the query", "SQL006"}},
	{"context canceled", UserMessage{"The request was cancelled", "Please try again", "SQL006"}},
	{"invalid input error", UserMessage{"The CSV file could not be parsed", "Ensure the file is comma-separated with consistent columns", "CSV002"}},
	{"io error", UserMessage{"The file could not be read", "Upload the file again", "CSV003"}},
	{"error processing csv", UserMessage{"The CSV file could not be processed", "Ensure the file is a valid CSV", "CSV001"}},
	{"query execution error", UserMessage{"The query failed", "Check the query and try again", "SQL000"}},

	// Capacity
	{"too many concurrent uploads", UserMessage{"Too many uploads in progress", "Please wait a moment and try again", "UPL002"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	// Sentinels first: their text may be wrapped into something longer.
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return MapErrorString(ErrSessionNotFound.Error())
	case errors.Is(err, ErrArtifactMissing):
		return MapErrorString(ErrArtifactMissing.Error())
	case errors.Is(err, ErrTooManyUploads):
		return MapErrorString(ErrTooManyUploads.Error())
	}

	return MapErrorString(err.Error())
}

// MapErrorString maps raw error text to a user message.
func MapErrorString(s string) UserMessage {
	lower := strings.ToLower(s)
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}
