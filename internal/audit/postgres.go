package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS session_audit (
	id          BIGSERIAL PRIMARY KEY,
	action      TEXT        NOT NULL,
	status      TEXT        NOT NULL,
	session_id  TEXT,
	filename    TEXT,
	query       TEXT,
	rows        BIGINT      NOT NULL DEFAULT 0,
	error       TEXT,
	ip_address  TEXT,
	user_agent  TEXT,
	duration_ms BIGINT      NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS session_audit_session_idx ON session_audit (session_id, created_at);
`

const insertSQL = `
INSERT INTO session_audit
	(action, status, session_id, filename, query, rows, error, ip_address, user_agent, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectBySessionSQL = `
SELECT action, status, session_id, filename, query, rows, error, ip_address, user_agent, duration_ms, created_at
FROM session_audit
WHERE session_id = $1
ORDER BY created_at, id`

// PGRecorder stores audit entries in PostgreSQL.
type PGRecorder struct {
	pool *pgxpool.Pool
}

// NewPGRecorder creates a recorder backed by pool.
// Call EnsureSchema once at startup before recording.
func NewPGRecorder(pool *pgxpool.Pool) *PGRecorder {
	return &PGRecorder{pool: pool}
}

// EnsureSchema creates the audit table if it does not exist.
func (r *PGRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Record inserts e.
func (r *PGRecorder) Record(ctx context.Context, e Entry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, insertSQL,
		string(e.Action),
		string(e.Status),
		toPgText(e.SessionID),
		toPgText(e.Filename),
		toPgText(e.Query),
		e.Rows,
		toPgText(e.Error),
		toPgText(e.IPAddress),
		toPgText(e.UserAgent),
		e.Duration.Milliseconds(),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// BySession returns all entries for a session in chronological order.
func (r *PGRecorder) BySession(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, selectBySessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var (
			e                                    Entry
			action, status                       string
			session, file, query, msg, ip, agent pgtype.Text
			durationMS                           int64
		)
		if err := row.Scan(&action, &status, &session, &file, &query, &e.Rows, &msg, &ip, &agent, &durationMS, &e.CreatedAt); err != nil {
			return Entry{}, err
		}
		e.Action = Action(action)
		e.Status = Status(status)
		e.SessionID = session.String
		e.Filename = file.String
		e.Query = query.String
		e.Error = msg.String
		e.IPAddress = ip.String
		e.UserAgent = agent.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan audit entries: %w", err)
	}
	return entries, nil
}

// toPgText converts a string to pgtype.Text, treating "" as NULL.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
