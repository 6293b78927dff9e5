package core

import (
	"context"

	"github.com/JonMunkholm/csvsql/internal/engine"
)

// Engine is the analytical engine the service drives. *engine.Engine
// implements it; tests substitute fakes.
type Engine interface {
	// Introspect validates the CSV at path and returns its schema and row count.
	Introspect(ctx context.Context, path string) (*engine.Schema, error)
	// Execute runs a complete SQL statement and materialises the result.
	Execute(ctx context.Context, query string) (*engine.ResultSet, error)
}

// UploadResult describes a freshly created session.
type UploadResult struct {
	SessionID   string   `json:"session_id"`
	Filename    string   `json:"filename"`
	Columns     []string `json:"columns"`
	ColumnTypes []string `json:"column_types,omitempty"`
	RowCount    int64    `json:"row_count"`
	Message     string   `json:"message"`
}

// QueryResult is the shaped output of a query: column names, then rows of
// values in column order.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

// Status is a snapshot of the service for health checks.
type Status struct {
	Sessions int                 `json:"sessions"`
	Uploads  UploadLimiterStatus `json:"uploads"`
}
