package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reachforge/outreach/internal/core"
	"github.com/reachforge/outreach/internal/web/middleware"
)

type templateRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// templateResponse augments the stored template with its extracted
// placeholder variables for the editor UI.
type templateResponse struct {
	core.Template
	Variables []string `json:"variables"`
}

func toTemplateResponse(tpl core.Template) templateResponse {
	return templateResponse{Template: tpl, Variables: core.TemplateVariables(tpl.Content)}
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	templates, err := s.service.ListTemplates(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]templateResponse, len(templates))
	for i, tpl := range templates {
		out[i] = toTemplateResponse(tpl)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid template payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(w, "title and content are required")
		return
	}

	tpl, err := s.service.CreateTemplate(r.Context(), userID, core.Template{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateResponse(tpl))
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	tpl, err := s.service.GetTemplate(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid template payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		badRequest(w, "title and content are required")
		return
	}

	tpl, err := s.service.UpdateTemplate(r.Context(), userID, core.Template{
		ID:       chi.URLParam(r, "id"),
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(tpl))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := s.service.DeleteTemplate(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderTemplate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req struct {
		ContactID string `json:"contactId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.ContactID == "" {
		badRequest(w, "contactId is required")
		return
	}

	rendered, err := s.service.RenderTemplateForContact(r.Context(), userID, chi.URLParam(r, "id"), req.ContactID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": rendered})
}
