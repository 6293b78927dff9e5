package web

// errors.go turns service errors into JSON responses.
//
// The flow:
//  1. A handler gets an error from the service (or a request problem).
//  2. It calls respondError(w, r, err).
//  3. The status comes from core.KindOf, the code and action from core.MapError.
//  4. The technical error is logged with the request id for correlation.
//
// The "error" field is the error text itself so engine messages reach the
// client verbatim. Internal errors are the exception: their text may name
// paths on the server, so the mapped message is sent instead.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/csvsql/internal/core"
	"github.com/JonMunkholm/csvsql/internal/logging"
	mw "github.com/JonMunkholm/csvsql/internal/web/middleware"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	if errors.Is(err, mw.ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	switch core.KindOf(err) {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes it as an ErrorResponse.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"status", status,
		"kind", core.KindOf(err).String(),
		"code", userMsg.Code,
		"error", err.Error(),
	}
	if msg := core.EngineMessage(err); msg != "" {
		args = append(args, "engine_message", msg)
	}
	if status >= 500 {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	text := err.Error()
	if status >= 500 && core.KindOf(err) == core.KindInternal {
		text = userMsg.Message
	}

	writeJSON(w, r, status, ErrorResponse{
		Error:   text,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
