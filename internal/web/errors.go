package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged server-side with the request ID; clients
// receive the user-friendly message and code from core.MapError.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reachforge/outreach/internal/core"
	"github.com/reachforge/outreach/internal/csv"
	"github.com/reachforge/outreach/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped user message
// with an appropriate status code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request failed",
		"status", status,
		"code", userMsg.Code,
		"error", err,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	var dupName *core.DuplicateListNameError
	var dupFile *core.DuplicateFileNameError

	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &dupName), errors.As(err, &dupFile):
		return http.StatusConflict
	case errors.Is(err, csv.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// badRequest writes a 400 with a literal message, for malformed input that
// never reached the core.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   message,
		Message: message,
		Code:    "REQ400",
	})
}

// writeJSON encodes v and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing to do but log.
		slog.Error("json encode failed", "error", err)
	}
}

// decodeJSON decodes the request body into v with unknown-field rejection.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
