package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reachforge/outreach/internal/core"
	"github.com/reachforge/outreach/internal/web/middleware"
)

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	lists, err := s.service.ListLists(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if lists == nil {
		lists = []core.ContactList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid list payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}

	list, err := s.service.CreateManualList(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	list, err := s.service.GetList(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := s.service.DeleteList(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	contacts, err := s.service.ListContactsByList(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []core.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

type contactRequest struct {
	ListID        string `json:"listId"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Company       string `json:"company"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	TemplateTitle string `json:"templateTitle"`
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid contact payload")
		return
	}
	if req.ListID == "" {
		badRequest(w, "listId is required")
		return
	}

	contact, err := s.service.AddContact(r.Context(), userID, core.Contact{
		ListID:        req.ListID,
		Email:         strings.TrimSpace(req.Email),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Company:       strings.TrimSpace(req.Company),
		Status:        core.ParseStatus(req.Status),
		Message:       req.Message,
		TemplateTitle: strings.TrimSpace(req.TemplateTitle),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid contact payload")
		return
	}

	// An omitted status keeps the stored one; the service treats ""
	// as "no change".
	var status core.ContactStatus
	if req.Status != "" {
		status = core.ParseStatus(req.Status)
	}

	contact, err := s.service.UpdateContact(r.Context(), userID, core.Contact{
		ID:            chi.URLParam(r, "id"),
		Email:         strings.TrimSpace(req.Email),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Company:       strings.TrimSpace(req.Company),
		Status:        status,
		Message:       req.Message,
		TemplateTitle: strings.TrimSpace(req.TemplateTitle),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := s.service.DeleteContact(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
