// Package memory provides in-memory implementations of the core repository
// interfaces, used for local development and tests. All methods are safe
// for concurrent use and return copies, never internal references.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reachforge/outreach/internal/core"
)

// Store implements every core repository interface over mutex-guarded maps.
type Store struct {
	mu         sync.RWMutex
	lists      map[string]core.ContactList
	contacts   map[string]core.Contact
	templates  map[string]core.Template
	activities map[string]core.Activity

	// now is injectable for deterministic timestamps in tests.
	now func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		lists:      make(map[string]core.ContactList),
		contacts:   make(map[string]core.Contact),
		templates:  make(map[string]core.Template),
		activities: make(map[string]core.Activity),
		now:        time.Now,
	}
}

// ============================================================================
// ListRepository
// ============================================================================

func (s *Store) CreateList(_ context.Context, list core.ContactList) (core.ContactList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list.ID = uuid.NewString()
	list.CreatedAt = s.now()
	list.UpdatedAt = list.CreatedAt
	s.lists[list.ID] = list
	return list, nil
}

func (s *Store) GetList(_ context.Context, userID, id string) (core.ContactList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[id]
	if !ok || list.UserID != userID {
		return core.ContactList{}, core.ErrNotFound
	}
	return list, nil
}

func (s *Store) ListLists(_ context.Context, userID string) ([]core.ContactList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.ContactList
	for _, list := range s.lists {
		if list.UserID == userID {
			out = append(out, list)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateList(_ context.Context, list core.ContactList) (core.ContactList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.lists[list.ID]
	if !ok || stored.UserID != list.UserID {
		return core.ContactList{}, core.ErrNotFound
	}

	list.CreatedAt = stored.CreatedAt
	list.UpdatedAt = s.now()
	s.lists[list.ID] = list
	return list, nil
}

func (s *Store) DeleteList(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[id]
	if !ok || list.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.lists, id)
	return nil
}

// ============================================================================
// ContactRepository
// ============================================================================

func (s *Store) CreateContact(_ context.Context, contact core.Contact) (core.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact.ID = uuid.NewString()
	contact.CreatedAt = s.now()
	contact.UpdatedAt = contact.CreatedAt
	s.contacts[contact.ID] = contact
	return contact, nil
}

func (s *Store) GetContact(_ context.Context, userID, id string) (core.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[id]
	if !ok || contact.UserID != userID {
		return core.Contact{}, core.ErrNotFound
	}
	return contact, nil
}

func (s *Store) ListContacts(_ context.Context, userID string) ([]core.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Contact
	for _, c := range s.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sortContacts(out)
	return out, nil
}

func (s *Store) ListContactsByList(_ context.Context, userID, listID string) ([]core.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Contact
	for _, c := range s.contacts {
		if c.UserID == userID && c.ListID == listID {
			out = append(out, c)
		}
	}
	sortContacts(out)
	return out, nil
}

func (s *Store) UpdateContact(_ context.Context, contact core.Contact) (core.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.contacts[contact.ID]
	if !ok || stored.UserID != contact.UserID {
		return core.Contact{}, core.ErrNotFound
	}

	contact.CreatedAt = stored.CreatedAt
	contact.UpdatedAt = s.now()
	s.contacts[contact.ID] = contact
	return contact, nil
}

func (s *Store) DeleteContact(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok || contact.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *Store) DeleteContactsByList(_ context.Context, userID, listID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, c := range s.contacts {
		if c.UserID == userID && c.ListID == listID {
			delete(s.contacts, id)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================================================
// TemplateRepository
// ============================================================================

func (s *Store) CreateTemplate(_ context.Context, tpl core.Template) (core.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl.ID = uuid.NewString()
	tpl.CreatedAt = s.now()
	tpl.UpdatedAt = tpl.CreatedAt
	s.templates[tpl.ID] = tpl
	return tpl, nil
}

func (s *Store) GetTemplate(_ context.Context, userID, id string) (core.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.templates[id]
	if !ok || tpl.UserID != userID {
		return core.Template{}, core.ErrNotFound
	}
	return tpl, nil
}

func (s *Store) ListTemplates(_ context.Context, userID string) ([]core.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Template
	for _, tpl := range s.templates {
		if tpl.UserID == userID {
			out = append(out, tpl)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateTemplate(_ context.Context, tpl core.Template) (core.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.templates[tpl.ID]
	if !ok || stored.UserID != tpl.UserID {
		return core.Template{}, core.ErrNotFound
	}

	tpl.CreatedAt = stored.CreatedAt
	tpl.UpdatedAt = s.now()
	s.templates[tpl.ID] = tpl
	return tpl, nil
}

func (s *Store) DeleteTemplate(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[id]
	if !ok || tpl.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.templates, id)
	return nil
}

// ============================================================================
// ActivityRepository
// ============================================================================

func (s *Store) CreateActivity(_ context.Context, activity core.Activity) (core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity.ID = uuid.NewString()
	activity.CreatedAt = s.now()
	s.activities[activity.ID] = activity
	return activity, nil
}

func (s *Store) ListActivities(_ context.Context, userID string, limit int) ([]core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Activity
	for _, a := range s.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortContacts(contacts []core.Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].CreatedAt.Equal(contacts[j].CreatedAt) {
			return contacts[i].ID < contacts[j].ID
		}
		return contacts[i].CreatedAt.Before(contacts[j].CreatedAt)
	})
}
