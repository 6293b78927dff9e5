package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/csvsql/internal/engine"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "missing session id", err: &Error{Kind: KindValidation, Op: "query", Err: ErrMissingSessionID}, wantCode: "REQ001"},
		{name: "empty query", err: &Error{Kind: KindValidation, Op: "query", Err: ErrEmptyQuery}, wantCode: "REQ002"},
		{name: "not a csv", err: &Error{Kind: KindValidation, Op: "ingest", Err: ErrNotCSV}, wantCode: "FILE002"},
		{name: "no file", err: ErrNoFile, wantCode: "FILE004"},
		{name: "body too large", err: errors.New("http: request body too large"), wantCode: "FILE001"},
		{name: "unknown session", err: &Error{Kind: KindNotFound, Op: "query", Err: ErrSessionNotFound}, wantCode: "SES001"},
		{name: "artifact missing", err: &Error{Kind: KindNotFound, Op: "query", Err: ErrArtifactMissing}, wantCode: "SES002"},
		{
			name:     "parser error beats generic query wrapper",
			err:      QueryError(&engine.Error{Op: "query", Err: errors.New(`Parser Error: syntax error at or near "SELEC"`)}),
			wantCode: "SQL001",
		},
		{
			name:     "binder error",
			err:      QueryError(errors.New(`Binder Error: Referenced column "c" not found in FROM clause!`)),
			wantCode: "SQL002",
		},
		{
			name:     "catalog error",
			err:      QueryError(errors.New("Catalog Error: Table with name tablenamefoo does not exist!")),
			wantCode: "SQL003",
		},
		{
			name:     "sniffer failure on ingest",
			err:      IngestError(errors.New("Invalid Input Error: Error when sniffing file")),
			wantCode: "CSV002",
		},
		{
			name:     "unclassified ingest failure",
			err:      IngestError(errors.New("something odd")),
			wantCode: "CSV001",
		},
		{
			name:     "unclassified query failure",
			err:      QueryError(errors.New("something odd")),
			wantCode: "SQL000",
		},
		{name: "busy", err: fmt.Errorf("wrapped: %w", ErrTooManyUploads), wantCode: "UPL002"},
		{name: "rate limit", err: errors.New("rate limit exceeded"), wantCode: "RATE001"},
		{name: "case insensitive", err: errors.New("PARSER ERROR: boom"), wantCode: "SQL001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			if tt.err != nil {
				assert.NotEmpty(t, got.Message)
				assert.NotEmpty(t, got.Action)
			}
		})
	}
}

func TestErrorPatterns_AllHaveCodes(t *testing.T) {
	for _, p := range errorPatterns {
		assert.NotEmpty(t, p.msg.Code, "pattern %q", p.pattern)
		assert.NotEmpty(t, p.msg.Message, "pattern %q", p.pattern)
		assert.NotEmpty(t, p.msg.Action, "pattern %q", p.pattern)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(&Error{Kind: KindValidation, Err: ErrEmptyQuery}))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", &Error{Kind: KindNotFound, Err: ErrSessionNotFound})))
	assert.Equal(t, KindEngine, KindOf(&engine.Error{Op: "query", Err: errors.New("x")}))
	assert.Equal(t, KindBusy, KindOf(ErrTooManyUploads))
	assert.Equal(t, KindInternal, KindOf(errors.New("disk full")))
}

func TestErrorMessages(t *testing.T) {
	engErr := &engine.Error{Op: "count", Err: errors.New("IO Error: No files found")}

	assert.Equal(t, "Error processing CSV: IO Error: No files found", IngestError(engErr).Error())
	assert.Equal(t, "Query execution error: IO Error: No files found", QueryError(engErr).Error())
	assert.Equal(t, "No query provided", (&Error{Kind: KindValidation, Op: "query", Err: ErrEmptyQuery}).Error())
	assert.Equal(t, "File must be a CSV", (&Error{Kind: KindValidation, Op: "ingest", Err: ErrNotCSV}).Error())
	assert.Equal(t, "ingest: disk full", (&Error{Kind: KindInternal, Op: "ingest", Err: errors.New("disk full")}).Error())
	assert.Equal(t, "not_found", KindNotFound.String())
}
