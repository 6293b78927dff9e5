package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/csvsql/internal/core"
	"github.com/JonMunkholm/csvsql/internal/logging"
	"github.com/JonMunkholm/csvsql/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// maxQueryBodySize bounds the JSON body of /query.
const maxQueryBodySize = 1 << 20

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string                   `json:"status"`
	Sessions int                      `json:"sessions"`
	Uploads  core.UploadLimiterStatus `json:"uploads"`
}

// handleIndex renders the upload and query page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(s.cfg.Upload.MaxFileSize).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleUpload accepts a multipart CSV in field "file" and opens a session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(s.cfg.Upload.MemoryBuffer); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, r, &core.Error{Kind: core.KindValidation, Op: "upload", Err: core.ErrFileTooLarge})
			return
		}
		s.respondError(w, r, &core.Error{Kind: core.KindValidation, Op: "upload", Err: core.ErrInvalidForm})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, &core.Error{Kind: core.KindValidation, Op: "upload", Err: core.ErrNoFile})
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Ingest(ctx, file, header.Filename)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleQuery runs a query against an existing session.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBodySize)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, &core.Error{Kind: core.KindValidation, Op: "query", Err: core.ErrInvalidRequest})
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Query(ctx, req.SessionID, req.Query)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleCleanup deletes a session and its file.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.Cleanup(ctx, sessionID); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, MessageResponse{Message: "File cleaned up"})
}

// handleHealth reports liveness plus session and upload counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Sessions: st.Sessions, Uploads: st.Uploads})
}
