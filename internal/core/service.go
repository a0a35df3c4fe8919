package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reachforge/outreach/internal/csv"
)

// DefaultImportWorkers bounds how many contact-creation calls run
// concurrently during a bulk import.
const DefaultImportWorkers = 8

// Repositories bundles the storage interfaces the service depends on.
// Implementations are selected at construction time (in-memory or
// Postgres); the service never touches storage directly.
type Repositories struct {
	Lists      ListRepository
	Contacts   ContactRepository
	Templates  TemplateRepository
	Activities ActivityRepository
}

// Service is the entry point for all outreach-manager operations.
type Service struct {
	repos         Repositories
	importWorkers int

	// now is injectable for deterministic list-name suffixes in tests.
	now func() time.Time
}

// NewService creates a Service backed by the given repositories.
func NewService(repos Repositories) *Service {
	return &Service{
		repos:         repos,
		importWorkers: DefaultImportWorkers,
		now:           time.Now,
	}
}

// SetImportWorkers overrides the bulk-import concurrency. Values below 1
// are ignored.
func (s *Service) SetImportWorkers(n int) {
	if n >= 1 {
		s.importWorkers = n
	}
}

// ============================================================================
// CSV import
// ============================================================================

// ImportPreview describes what an upload would produce, for the map/edit
// step of the UI flow.
type ImportPreview struct {
	Headers  []string           `json:"headers"`
	Mapping  ColumnMapping      `json:"mapping"`
	RowCount int                `json:"rowCount"`
	Sample   []CandidateContact `json:"sample"`
}

// ImportSummary reports the outcome of a completed import.
type ImportSummary struct {
	List     ContactList `json:"list"`
	Imported int         `json:"imported"`
	Failed   int         `json:"failed"`
	Skipped  int         `json:"skipped"`
}

// PreviewCSV parses the upload, auto-detects a column mapping, and returns
// the headers plus up to sampleSize mapped rows. No state is touched.
func (s *Service) PreviewCSV(data []byte, sampleSize int) (*ImportPreview, error) {
	table, err := csv.Parse(string(data))
	if err != nil {
		return nil, err
	}

	mapping := AutoDetectMapping(table.Headers)
	rows := MapRows(table, mapping)

	if sampleSize <= 0 || sampleSize > len(rows) {
		sampleSize = len(rows)
	}

	return &ImportPreview{
		Headers:  table.Headers,
		Mapping:  mapping,
		RowCount: len(rows),
		Sample:   rows[:sampleSize],
	}, nil
}

// ImportCSV runs the full pipeline: parse, auto-map, apply caller
// overrides, validate uniqueness against the user's existing lists, persist
// the list, then persist the surviving contacts concurrently. The
// uniqueness checks fail the import atomically before any contact is
// created; per-row persistence failures after that point are collected and
// reported in the summary.
func (s *Service) ImportCSV(ctx context.Context, userID, fileName string, data []byte, override ColumnMapping) (*ImportSummary, error) {
	table, err := csv.Parse(string(data))
	if err != nil {
		return nil, err
	}

	mapping := AutoDetectMapping(table.Headers).Merge(override)
	rows := MapRows(table, mapping)

	existing, err := s.existingLists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load existing lists: %w", err)
	}

	result, err := BuildImport(rows, fileName, SourceCSVImport, "", existing, s.now())
	if err != nil {
		return nil, err
	}

	list := result.List
	list.UserID = userID
	list, err = s.repos.Lists.CreateList(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	imported, failed := s.persistContacts(ctx, userID, list.ID, result.Contacts)

	if failed > 0 {
		// Keep the stored count in line with what actually landed.
		list.ContactCount = imported
		if updated, uerr := s.repos.Lists.UpdateList(ctx, list); uerr == nil {
			list = updated
		} else {
			slog.Warn("failed to reconcile contact count", "list_id", list.ID, "error", uerr)
		}
	}

	s.recordActivity(ctx, Activity{
		UserID: userID,
		Type:   ActivityCSVImport,
		ListID: list.ID,
		Detail: fmt.Sprintf("imported %d contacts from %s", imported, fileName),
	})

	return &ImportSummary{
		List:     list,
		Imported: imported,
		Failed:   failed,
		Skipped:  len(rows) - len(result.Contacts),
	}, nil
}

// persistContacts creates contacts concurrently with a bounded worker
// count. Individual failures do not abort the batch; they are counted and
// logged.
func (s *Service) persistContacts(ctx context.Context, userID, listID string, candidates []CandidateContact) (imported, failed int) {
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.importWorkers)

	for _, cand := range candidates {
		g.Go(func() error {
			_, err := s.repos.Contacts.CreateContact(gctx, Contact{
				UserID:        userID,
				ListID:        listID,
				Email:         cand.Email,
				FirstName:     cand.FirstName,
				LastName:      cand.LastName,
				Company:       cand.Company,
				Status:        cand.Status,
				Message:       cand.Message,
				TemplateTitle: cand.TemplateTitle,
			})

			mu.Lock()
			if err != nil {
				failed++
				slog.Warn("contact create failed during import", "list_id", listID, "error", err)
			} else {
				imported++
			}
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()
	return imported, failed
}

func (s *Service) existingLists(ctx context.Context, userID string) ([]ExistingList, error) {
	lists, err := s.repos.Lists.ListLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing := make([]ExistingList, len(lists))
	for i, l := range lists {
		existing[i] = ExistingList{Name: l.Name, CSVFileName: l.CSVFileName}
	}
	return existing, nil
}

// ============================================================================
// Lists and contacts
// ============================================================================

// CreateManualList creates an empty list with the same derived-name and
// uniqueness rules as a CSV import, minus the filename check.
func (s *Service) CreateManualList(ctx context.Context, userID, name, description string) (ContactList, error) {
	existing, err := s.existingLists(ctx, userID)
	if err != nil {
		return ContactList{}, fmt.Errorf("load existing lists: %w", err)
	}

	result, err := BuildImport(nil, name, SourceManual, description, existing, s.now())
	if err != nil {
		return ContactList{}, err
	}

	list := result.List
	list.UserID = userID
	return s.repos.Lists.CreateList(ctx, list)
}

// ListLists returns the user's contact lists.
func (s *Service) ListLists(ctx context.Context, userID string) ([]ContactList, error) {
	return s.repos.Lists.ListLists(ctx, userID)
}

// GetList returns one list by ID.
func (s *Service) GetList(ctx context.Context, userID, id string) (ContactList, error) {
	return s.repos.Lists.GetList(ctx, userID, id)
}

// DeleteList removes a list and all of its contacts.
func (s *Service) DeleteList(ctx context.Context, userID, id string) error {
	if _, err := s.repos.Lists.GetList(ctx, userID, id); err != nil {
		return err
	}
	if _, err := s.repos.Contacts.DeleteContactsByList(ctx, userID, id); err != nil {
		return fmt.Errorf("delete list contacts: %w", err)
	}
	return s.repos.Lists.DeleteList(ctx, userID, id)
}

// ListContactsByList returns the contacts in one list.
func (s *Service) ListContactsByList(ctx context.Context, userID, listID string) ([]Contact, error) {
	if _, err := s.repos.Lists.GetList(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.repos.Contacts.ListContactsByList(ctx, userID, listID)
}

// AddContact adds one contact to an existing list and bumps the list's
// contact count.
func (s *Service) AddContact(ctx context.Context, userID string, contact Contact) (Contact, error) {
	list, err := s.repos.Lists.GetList(ctx, userID, contact.ListID)
	if err != nil {
		return Contact{}, err
	}

	contact.UserID = userID
	if contact.Status == "" {
		contact.Status = StatusNotContacted
	}

	created, err := s.repos.Contacts.CreateContact(ctx, contact)
	if err != nil {
		return Contact{}, err
	}

	list.ContactCount++
	if _, err := s.repos.Lists.UpdateList(ctx, list); err != nil {
		slog.Warn("failed to bump contact count", "list_id", list.ID, "error", err)
	}

	return created, nil
}

// UpdateContact updates a contact's fields. A status change is recorded in
// the activity log.
func (s *Service) UpdateContact(ctx context.Context, userID string, contact Contact) (Contact, error) {
	current, err := s.repos.Contacts.GetContact(ctx, userID, contact.ID)
	if err != nil {
		return Contact{}, err
	}

	contact.UserID = userID
	contact.ListID = current.ListID
	if contact.Status == "" {
		contact.Status = current.Status
	}

	updated, err := s.repos.Contacts.UpdateContact(ctx, contact)
	if err != nil {
		return Contact{}, err
	}

	if updated.Status != current.Status {
		s.recordActivity(ctx, Activity{
			UserID:    userID,
			Type:      ActivityStatusChanged,
			ContactID: updated.ID,
			ListID:    updated.ListID,
			Detail:    fmt.Sprintf("%s -> %s", current.Status.Label(), updated.Status.Label()),
		})
	}

	return updated, nil
}

// DeleteContact removes one contact and decrements its list's count.
func (s *Service) DeleteContact(ctx context.Context, userID, id string) error {
	contact, err := s.repos.Contacts.GetContact(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repos.Contacts.DeleteContact(ctx, userID, id); err != nil {
		return err
	}

	if list, lerr := s.repos.Lists.GetList(ctx, userID, contact.ListID); lerr == nil && list.ContactCount > 0 {
		list.ContactCount--
		if _, uerr := s.repos.Lists.UpdateList(ctx, list); uerr != nil {
			slog.Warn("failed to decrement contact count", "list_id", list.ID, "error", uerr)
		}
	}

	return nil
}

// ============================================================================
// Templates
// ============================================================================

// CreateTemplate stores a new message template.
func (s *Service) CreateTemplate(ctx context.Context, userID string, tpl Template) (Template, error) {
	tpl.UserID = userID
	return s.repos.Templates.CreateTemplate(ctx, tpl)
}

// GetTemplate returns one template by ID.
func (s *Service) GetTemplate(ctx context.Context, userID, id string) (Template, error) {
	return s.repos.Templates.GetTemplate(ctx, userID, id)
}

// ListTemplates returns the user's templates.
func (s *Service) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	return s.repos.Templates.ListTemplates(ctx, userID)
}

// UpdateTemplate updates a template's title, content, or category.
func (s *Service) UpdateTemplate(ctx context.Context, userID string, tpl Template) (Template, error) {
	tpl.UserID = userID
	return s.repos.Templates.UpdateTemplate(ctx, tpl)
}

// DeleteTemplate removes a template.
func (s *Service) DeleteTemplate(ctx context.Context, userID, id string) error {
	return s.repos.Templates.DeleteTemplate(ctx, userID, id)
}

// RenderTemplateForContact substitutes a contact's fields into a stored
// template and records a template_used activity.
func (s *Service) RenderTemplateForContact(ctx context.Context, userID, templateID, contactID string) (string, error) {
	tpl, err := s.repos.Templates.GetTemplate(ctx, userID, templateID)
	if err != nil {
		return "", err
	}
	contact, err := s.repos.Contacts.GetContact(ctx, userID, contactID)
	if err != nil {
		return "", err
	}

	rendered := RenderTemplate(tpl.Content, contact)

	s.recordActivity(ctx, Activity{
		UserID:     userID,
		Type:       ActivityTemplateUsed,
		ContactID:  contactID,
		TemplateID: templateID,
		Detail:     tpl.Title,
	})

	return rendered, nil
}

// ============================================================================
// Activities and analytics
// ============================================================================

// RecordActivity appends one entry to the activity log.
func (s *Service) RecordActivity(ctx context.Context, userID string, activity Activity) (Activity, error) {
	activity.UserID = userID
	return s.repos.Activities.CreateActivity(ctx, activity)
}

// ListActivities returns the newest activities first, up to limit
// (0 = no limit).
func (s *Service) ListActivities(ctx context.Context, userID string, limit int) ([]Activity, error) {
	return s.repos.Activities.ListActivities(ctx, userID, limit)
}

// Analytics derives the response/conversion summary from the user's
// current contacts and activity history.
func (s *Service) Analytics(ctx context.Context, userID string) (AnalyticsSummary, error) {
	lists, err := s.repos.Lists.ListLists(ctx, userID)
	if err != nil {
		return AnalyticsSummary{}, err
	}
	contacts, err := s.repos.Contacts.ListContacts(ctx, userID)
	if err != nil {
		return AnalyticsSummary{}, err
	}
	activities, err := s.repos.Activities.ListActivities(ctx, userID, 0)
	if err != nil {
		return AnalyticsSummary{}, err
	}
	return Summarize(lists, contacts, activities), nil
}

// recordActivity is the fire-and-forget variant used for side-effect
// logging; failures are logged, never surfaced.
func (s *Service) recordActivity(ctx context.Context, activity Activity) {
	if _, err := s.repos.Activities.CreateActivity(ctx, activity); err != nil {
		slog.Warn("failed to record activity", "type", activity.Type, "error", err)
	}
}
