package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/csvsql/internal/audit"
	"github.com/JonMunkholm/csvsql/internal/config"
	"github.com/JonMunkholm/csvsql/internal/logging"
	"github.com/JonMunkholm/csvsql/internal/metrics"
	"github.com/JonMunkholm/csvsql/internal/session"
	"github.com/JonMunkholm/csvsql/internal/sqlrewrite"
	"github.com/google/uuid"
)

// Deps are the collaborators of a Service. Store and Engine are required;
// Audit defaults to audit.LogRecorder and Metrics may be nil.
type Deps struct {
	Store   *session.Store
	Engine  Engine
	Audit   audit.Recorder
	Metrics *metrics.Metrics
}

// Service implements upload, query and cleanup of sessions.
type Service struct {
	store   *session.Store
	engine  Engine
	audit   audit.Recorder
	metrics *metrics.Metrics
	limiter *UploadLimiter

	storageDir   string
	queryTimeout time.Duration

	// newID generates session ids; replaced in tests.
	newID func() string
}

// NewService creates a Service storing uploads under cfg.Storage.Dir.
func NewService(deps Deps, cfg *config.Config) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if deps.Audit == nil {
		deps.Audit = audit.LogRecorder{}
	}

	dir := cfg.Storage.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}

	return &Service{
		store:        deps.Store,
		engine:       deps.Engine,
		audit:        deps.Audit,
		metrics:      deps.Metrics,
		limiter:      NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		storageDir:   dir,
		queryTimeout: cfg.Query.Timeout,
		newID:        uuid.NewString,
	}, nil
}

// Ingest persists an uploaded CSV, introspects it and creates a session.
//
// Either a complete session exists afterwards (file on disk, store entry,
// schema returned) or nothing does: a file that fails introspection is
// deleted and no session id is handed out.
func (s *Service) Ingest(ctx context.Context, r io.Reader, declaredName string) (*UploadResult, error) {
	start := time.Now()

	if declaredName == "" {
		return nil, &Error{Kind: KindValidation, Op: "ingest", Err: ErrNoFileSelected}
	}
	if !HasCSVExtension(declaredName) {
		return nil, &Error{Kind: KindValidation, Op: "ingest", Err: ErrNotCSV}
	}

	if !s.limiter.TryAcquire() {
		logging.FromContext(ctx).Info("waiting for upload slot", "active", s.limiter.ActiveCount())
		if err := s.limiter.Acquire(ctx); err != nil {
			kind := KindInternal
			if errors.Is(err, ErrTooManyUploads) {
				kind = KindBusy
			}
			s.metrics.ObserveUpload("busy", 0)
			return nil, &Error{Kind: kind, Op: "ingest", Err: err}
		}
	}
	defer s.limiter.Release()
	defer s.metrics.UploadStarted()()

	id := s.newID()
	filename := SecureFilename(declaredName)
	path := filepath.Join(s.storageDir, id+"_"+filename)
	log := logging.WithFields(ctx, "session_id", id, "filename", filename)

	size, err := writeArtifact(path, r)
	if err != nil {
		log.Error("failed to store upload", "error", err)
		s.metrics.ObserveUpload("error", 0)
		s.record(ctx, audit.Entry{Action: audit.ActionUpload, Status: audit.StatusError, Filename: filename, Error: err.Error(), Duration: time.Since(start)})
		return nil, &Error{Kind: KindInternal, Op: "ingest", Err: err}
	}

	schema, err := s.engine.Introspect(ctx, path)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Warn("failed to remove rejected upload", "path", path, "error", rmErr)
		}
		log.Warn("upload rejected", "error", err)
		s.metrics.ObserveUpload("error", 0)
		s.record(ctx, audit.Entry{Action: audit.ActionUpload, Status: audit.StatusError, Filename: filename, Error: err.Error(), Duration: time.Since(start)})
		return nil, IngestError(err)
	}

	s.store.Put(id, path)
	s.metrics.ObserveUpload("ok", size)
	s.metrics.SetSessions(s.store.Len())

	log.Info("upload stored", "bytes", size, "columns", len(schema.Columns), "rows", schema.RowCount)
	s.record(ctx, audit.Entry{
		Action:    audit.ActionUpload,
		Status:    audit.StatusOK,
		SessionID: id,
		Filename:  filename,
		Rows:      schema.RowCount,
		Duration:  time.Since(start),
	})

	return &UploadResult{
		SessionID:   id,
		Filename:    filename,
		Columns:     schema.Columns,
		ColumnTypes: schema.ColumnTypes,
		RowCount:    schema.RowCount,
		Message:     "File uploaded successfully",
	}, nil
}

// writeArtifact copies r to a new file at path and syncs it. The file is
// complete and closed when writeArtifact returns nil; on error it is removed.
func writeArtifact(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create artifact: %w", err)
	}

	n, err := io.Copy(f, r)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write artifact: %w", err)
	}
	return n, nil
}

// Query runs query against the session's file. Every whole-word occurrence
// of "tablename" (any case) is replaced by a reference to the file first.
// The session store is never modified.
func (s *Service) Query(ctx context.Context, sessionID, query string) (*QueryResult, error) {
	start := time.Now()
	query = strings.TrimSpace(query)

	if sessionID == "" {
		return nil, &Error{Kind: KindValidation, Op: "query", Err: ErrMissingSessionID}
	}
	if query == "" {
		return nil, &Error{Kind: KindValidation, Op: "query", Err: ErrEmptyQuery}
	}

	path, err := s.resolve(sessionID)
	if err != nil {
		kind := KindInternal
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrArtifactMissing) {
			kind = KindNotFound
		}
		s.metrics.ObserveQuery("not_found", time.Since(start), 0)
		return nil, &Error{Kind: kind, Op: "query", Err: err}
	}

	log := logging.WithFields(ctx, "session_id", sessionID)
	if !sqlrewrite.References(query) {
		log.Debug("query does not reference the uploaded file", "placeholder", sqlrewrite.Placeholder)
	}

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	rs, err := s.engine.Execute(ctx, sqlrewrite.Rewrite(query, path))
	if err != nil {
		log.Warn("query failed", "error", err)
		s.metrics.ObserveQuery("error", time.Since(start), 0)
		s.record(ctx, audit.Entry{Action: audit.ActionQuery, Status: audit.StatusError, SessionID: sessionID, Query: query, Error: err.Error(), Duration: time.Since(start)})
		return nil, QueryError(err)
	}

	elapsed := time.Since(start)
	log.Debug("query executed", "rows", len(rs.Rows), "duration_ms", elapsed.Milliseconds())
	s.metrics.ObserveQuery("ok", elapsed, len(rs.Rows))
	s.record(ctx, audit.Entry{Action: audit.ActionQuery, Status: audit.StatusOK, SessionID: sessionID, Query: query, Rows: int64(len(rs.Rows)), Duration: elapsed})

	return &QueryResult{
		Columns:  rs.Columns,
		Rows:     rs.Rows,
		RowCount: len(rs.Rows),
	}, nil
}

// resolve maps a session id to its file, checking both the store and the disk.
func (s *Service) resolve(sessionID string) (string, error) {
	path, err := s.store.Get(sessionID)
	if err != nil {
		return "", ErrSessionNotFound
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrArtifactMissing
		}
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	return path, nil
}

// Cleanup deletes the session's file, if still present, and its store entry.
// A second call for the same id returns a KindNotFound error.
func (s *Service) Cleanup(ctx context.Context, sessionID string) error {
	start := time.Now()

	path, err := s.store.Get(sessionID)
	if err != nil {
		s.metrics.ObserveCleanup("not_found")
		return &Error{Kind: KindNotFound, Op: "cleanup", Err: ErrSessionNotFound}
	}

	log := logging.WithFields(ctx, "session_id", sessionID)

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// The entry is still removed; the file becomes an orphan named after the session.
		log.Warn("failed to remove artifact", "path", path, "error", err)
	}

	if !s.store.Remove(sessionID) {
		// A concurrent cleanup removed the entry first.
		s.metrics.ObserveCleanup("not_found")
		return &Error{Kind: KindNotFound, Op: "cleanup", Err: ErrSessionNotFound}
	}

	s.metrics.ObserveCleanup("ok")
	s.metrics.SetSessions(s.store.Len())
	log.Info("session cleaned up")
	s.record(ctx, audit.Entry{Action: audit.ActionCleanup, Status: audit.StatusOK, SessionID: sessionID, Duration: time.Since(start)})

	return nil
}

// PurgeAll removes every session and its file. Used on graceful shutdown.
// It returns how many sessions were removed.
func (s *Service) PurgeAll(ctx context.Context) int {
	drained := s.store.Drain()
	for id, path := range drained {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.FromContext(ctx).Warn("failed to remove artifact", "session_id", id, "path", path, "error", err)
		}
		s.record(ctx, audit.Entry{Action: audit.ActionPurge, Status: audit.StatusOK, SessionID: id})
	}
	s.metrics.SetSessions(0)
	return len(drained)
}

// WaitForUploads blocks until no ingest is running or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Status returns session and upload counts.
func (s *Service) Status() Status {
	return Status{
		Sessions: s.store.Len(),
		Uploads:  s.limiter.Status(),
	}
}

// StorageDir returns the absolute directory uploads are written to.
func (s *Service) StorageDir() string {
	return s.storageDir
}

// record writes an audit entry. Failures are logged and otherwise ignored;
// the entry outlives a cancelled request context.
func (s *Service) record(ctx context.Context, e audit.Entry) {
	e.IPAddress = IPAddressFromContext(ctx)
	e.UserAgent = UserAgentFromContext(ctx)
	e.CreatedAt = time.Now()

	if err := s.audit.Record(context.WithoutCancel(ctx), e); err != nil {
		logging.FromContext(ctx).Warn("failed to record audit entry", "action", e.Action, "error", err)
	}
}
