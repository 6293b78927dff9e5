// Package audit records what happened to each session: uploads, queries and
// cleanups, with their outcome and the client that asked.
//
// Recording is best-effort. A failing recorder is logged by the caller and
// never turns a successful request into a failed one.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/csvsql/internal/logging"
)

// Action is the kind of session operation being audited.
type Action string

const (
	ActionUpload  Action = "upload"
	ActionQuery   Action = "query"
	ActionCleanup Action = "cleanup"
	ActionPurge   Action = "purge"
)

// Status is the outcome of the audited operation.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Entry is a single audit record.
type Entry struct {
	Action    Action        `json:"action"`
	Status    Status        `json:"status"`
	SessionID string        `json:"sessionId,omitempty"`
	Filename  string        `json:"filename,omitempty"`
	Query     string        `json:"query,omitempty"`
	Rows      int64         `json:"rows,omitempty"`
	Error     string        `json:"error,omitempty"`
	IPAddress string        `json:"ipAddress,omitempty"`
	UserAgent string        `json:"userAgent,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// LogRecorder writes entries to the structured log. It is the default when
// no database is configured.
type LogRecorder struct{}

// Record logs e at info level, or warn when the operation failed.
func (LogRecorder) Record(ctx context.Context, e Entry) error {
	level := slog.LevelInfo
	if e.Status == StatusError {
		level = slog.LevelWarn
	}

	attrs := []any{
		"action", e.Action,
		"status", e.Status,
		"session_id", e.SessionID,
		"duration_ms", e.Duration.Milliseconds(),
	}
	if e.Filename != "" {
		attrs = append(attrs, "filename", e.Filename)
	}
	if e.Query != "" {
		attrs = append(attrs, "query", e.Query)
	}
	if e.Rows > 0 {
		attrs = append(attrs, "rows", e.Rows)
	}
	if e.Error != "" {
		attrs = append(attrs, "error", e.Error)
	}
	if e.IPAddress != "" {
		attrs = append(attrs, "ip", e.IPAddress)
	}

	logging.FromContext(ctx).Log(ctx, level, "audit", attrs...)
	return nil
}
