package web

import (
	"net/http"
	"strconv"

	"github.com/reachforge/outreach/internal/core"
	"github.com/reachforge/outreach/internal/web/middleware"
)

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	activities, err := s.service.ListActivities(r.Context(), userID, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if activities == nil {
		activities = []core.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req struct {
		Type       string `json:"type"`
		ContactID  string `json:"contactId"`
		ListID     string `json:"listId"`
		TemplateID string `json:"templateId"`
		Detail     string `json:"detail"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Type == "" {
		badRequest(w, "type is required")
		return
	}

	activity, err := s.service.RecordActivity(r.Context(), userID, core.Activity{
		Type:       core.ActivityType(req.Type),
		ContactID:  req.ContactID,
		ListID:     req.ListID,
		TemplateID: req.TemplateID,
		Detail:     req.Detail,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	summary, err := s.service.Analytics(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleListStatuses exposes the status vocabulary (value + label) so the
// UI renders pipeline stages without hardcoding them.
func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := core.AllStatuses()
	out := make([]map[string]string, len(statuses))
	for i, status := range statuses {
		out[i] = map[string]string{
			"value": string(status),
			"label": status.Label(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
