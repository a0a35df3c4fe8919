package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/reachforge/outreach/internal/core"
	"github.com/reachforge/outreach/internal/logging"
	"github.com/reachforge/outreach/internal/web/middleware"
)

// readUploadedCSV extracts the multipart "file" part, enforcing the
// configured size limit. It returns the file name, raw bytes, and an
// optional column-mapping override from the "mapping" form value.
func (s *Server) readUploadedCSV(w http.ResponseWriter, r *http.Request) (string, []byte, core.ColumnMapping, bool) {
	var override core.ColumnMapping

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		badRequest(w, "file too large or invalid form")
		return "", nil, override, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "no file provided")
		return "", nil, override, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "failed to read file")
		return "", nil, override, false
	}

	if mappingJSON := r.FormValue("mapping"); mappingJSON != "" {
		if err := json.Unmarshal([]byte(mappingJSON), &override); err != nil {
			badRequest(w, "invalid mapping format")
			return "", nil, override, false
		}
	}

	return header.Filename, data, override, true
}

// handleImportPreview parses the upload and returns headers, the
// auto-detected mapping, and a row sample for the map/edit step.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	_, data, _, ok := s.readUploadedCSV(w, r)
	if !ok {
		return
	}

	preview, err := s.service.PreviewCSV(data, s.cfg.Import.PreviewRows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleImport runs the full import pipeline and returns the created list
// with import counts.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	fileName, data, override, ok := s.readUploadedCSV(w, r)
	if !ok {
		return
	}

	summary, err := s.service.ImportCSV(r.Context(), userID, fileName, data, override)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("csv import completed",
		"list_id", summary.List.ID,
		"imported", summary.Imported,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)

	writeJSON(w, http.StatusCreated, summary)
}
