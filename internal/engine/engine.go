// Package engine runs SQL against uploaded CSV files with an embedded DuckDB.
//
// Every call opens its own in-memory DuckDB database and closes it before
// returning. Nothing is pooled or cached between calls; the CSV file on disk
// is the only state.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/csvsql/internal/sqlrewrite"
	_ "github.com/marcboeker/go-duckdb" // registers the "duckdb" driver
)

// DriverName is the database/sql driver used for every connection.
const DriverName = "duckdb"

// Options tune each DuckDB instance. Zero values keep the engine defaults.
type Options struct {
	MemoryLimit string
	Threads     int
}

// Schema is the result of introspecting an uploaded file.
type Schema struct {
	Columns     []string
	ColumnTypes []string
	RowCount    int64
}

// ResultSet is a fully materialised query result.
// Rows hold JSON-safe values in column order.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Error wraps a failure reported by DuckDB. Its message is the engine's,
// unmodified.
type Error struct {
	Op  string // "connect", "probe", "count" or "query"
	Err error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Engine executes SQL with a fresh DuckDB connection per call.
type Engine struct {
	dsn string
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{dsn: buildDSN(opts)}
}

// buildDSN encodes options as DuckDB config parameters on an in-memory DSN.
func buildDSN(opts Options) string {
	params := url.Values{}
	if opts.MemoryLimit != "" {
		params.Set("memory_limit", opts.MemoryLimit)
	}
	if opts.Threads > 0 {
		params.Set("threads", strconv.Itoa(opts.Threads))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// open returns a database limited to one connection so every statement of a
// call runs on the same DuckDB connection.
func (e *Engine) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(DriverName, e.dsn)
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &Error{Op: "connect", Err: err}
	}
	return db, nil
}

// Introspect validates the CSV at path. It reads the column names without
// materialising any row, then counts all rows. Both steps must succeed.
func (e *Engine) Introspect(ctx context.Context, path string) (*Schema, error) {
	db, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ref := sqlrewrite.TableReference(path)

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+ref+" LIMIT 0")
	if err != nil {
		return nil, &Error{Op: "probe", Err: err}
	}
	schema := &Schema{}
	schema.Columns, err = rows.Columns()
	if err == nil {
		var types []*sql.ColumnType
		if types, err = rows.ColumnTypes(); err == nil {
			schema.ColumnTypes = make([]string, len(types))
			for i, ct := range types {
				schema.ColumnTypes[i] = ct.DatabaseTypeName()
			}
		}
	}
	rows.Close()
	if err != nil {
		return nil, &Error{Op: "probe", Err: err}
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+ref).Scan(&schema.RowCount); err != nil {
		return nil, &Error{Op: "count", Err: err}
	}

	return schema, nil
}

// Execute runs query as a single statement and materialises every row.
func (e *Engine) Execute(ctx context.Context, query string) (*ResultSet, error) {
	db, err := e.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	convert := make([]Converter, len(types))
	for i, ct := range types {
		convert[i] = ConverterFor(ct.DatabaseTypeName())
	}

	result := &ResultSet{Columns: columns, Rows: [][]any{}}

	dest := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &Error{Op: "query", Err: fmt.Errorf("scan row %d: %w", len(result.Rows)+1, err)}
		}
		row := make([]any, len(dest))
		for i, v := range dest {
			row[i] = convert[i](v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "query", Err: err}
	}

	return result, nil
}
