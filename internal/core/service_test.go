package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reachforge/outreach/internal/csv"
)

// fakeStore is an order-preserving in-memory implementation of the four
// repository interfaces. It lives here rather than reusing the memory
// package to avoid an import cycle; failEmails lets tests inject per-row
// persistence failures.
type fakeStore struct {
	mu         sync.Mutex
	seq        int
	lists      []ContactList
	contacts   []Contact
	templates  []Template
	activities []Activity

	failEmails map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{failEmails: make(map[string]bool)}
}

func (f *fakeStore) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%d", f.seq)
}

func (f *fakeStore) CreateList(_ context.Context, list ContactList) (ContactList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list.ID = f.nextID()
	f.lists = append(f.lists, list)
	return list, nil
}

func (f *fakeStore) GetList(_ context.Context, userID, id string) (ContactList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lists {
		if l.ID == id && l.UserID == userID {
			return l, nil
		}
	}
	return ContactList{}, ErrNotFound
}

func (f *fakeStore) ListLists(_ context.Context, userID string) ([]ContactList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ContactList
	for _, l := range f.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateList(_ context.Context, list ContactList) (ContactList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lists {
		if l.ID == list.ID && l.UserID == list.UserID {
			f.lists[i] = list
			return list, nil
		}
	}
	return ContactList{}, ErrNotFound
}

func (f *fakeStore) DeleteList(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lists {
		if l.ID == id && l.UserID == userID {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) CreateContact(_ context.Context, contact Contact) (Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEmails[contact.Email] {
		return Contact{}, errors.New("simulated insert failure")
	}
	contact.ID = f.nextID()
	f.contacts = append(f.contacts, contact)
	return contact, nil
}

func (f *fakeStore) GetContact(_ context.Context, userID, id string) (Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return Contact{}, ErrNotFound
}

func (f *fakeStore) ListContacts(_ context.Context, userID string) ([]Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Contact
	for _, c := range f.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListContactsByList(_ context.Context, userID, listID string) ([]Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Contact
	for _, c := range f.contacts {
		if c.UserID == userID && c.ListID == listID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateContact(_ context.Context, contact Contact) (Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.contacts {
		if c.ID == contact.ID && c.UserID == contact.UserID {
			f.contacts[i] = contact
			return contact, nil
		}
	}
	return Contact{}, ErrNotFound
}

func (f *fakeStore) DeleteContact(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.contacts {
		if c.ID == id && c.UserID == userID {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) DeleteContactsByList(_ context.Context, userID, listID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deleted := 0
	kept := f.contacts[:0]
	for _, c := range f.contacts {
		if c.UserID == userID && c.ListID == listID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	f.contacts = kept
	return deleted, nil
}

func (f *fakeStore) CreateTemplate(_ context.Context, tpl Template) (Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl.ID = f.nextID()
	f.templates = append(f.templates, tpl)
	return tpl, nil
}

func (f *fakeStore) GetTemplate(_ context.Context, userID, id string) (Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tpl := range f.templates {
		if tpl.ID == id && tpl.UserID == userID {
			return tpl, nil
		}
	}
	return Template{}, ErrNotFound
}

func (f *fakeStore) ListTemplates(_ context.Context, userID string) ([]Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Template
	for _, tpl := range f.templates {
		if tpl.UserID == userID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateTemplate(_ context.Context, tpl Template) (Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, stored := range f.templates {
		if stored.ID == tpl.ID && stored.UserID == tpl.UserID {
			f.templates[i] = tpl
			return tpl, nil
		}
	}
	return Template{}, ErrNotFound
}

func (f *fakeStore) DeleteTemplate(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, tpl := range f.templates {
		if tpl.ID == id && tpl.UserID == userID {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) CreateActivity(_ context.Context, activity Activity) (Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	activity.ID = f.nextID()
	f.activities = append(f.activities, activity)
	return activity, nil
}

func (f *fakeStore) ListActivities(_ context.Context, userID string, limit int) ([]Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Activity
	for _, a := range f.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(Repositories{
		Lists:      store,
		Contacts:   store,
		Templates:  store,
		Activities: store,
	})
	svc.now = func() time.Time {
		return time.Date(2025, time.November, 17, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

// ============================================================================
// CSV import
// ============================================================================

func TestImportCSVEndToEnd(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	data := []byte("Email,First,Last,Status\njohn@x.com,John,Doe,Replied\n,,,\n")

	summary, err := svc.ImportCSV(context.Background(), "u1", "batch.csv", data, ColumnMapping{})
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	if summary.List.Name != "batch_17/11/2025" {
		t.Errorf("list name = %q, want %q", summary.List.Name, "batch_17/11/2025")
	}
	if summary.List.ContactCount != 1 {
		t.Errorf("contactCount = %d, want 1", summary.List.ContactCount)
	}
	if summary.Imported != 1 || summary.Failed != 0 || summary.Skipped != 1 {
		t.Errorf("summary = imported %d, failed %d, skipped %d; want 1, 0, 1",
			summary.Imported, summary.Failed, summary.Skipped)
	}
	if summary.List.CSVFileName == nil || *summary.List.CSVFileName != "batch.csv" {
		t.Errorf("csvFileName = %v, want %q", summary.List.CSVFileName, "batch.csv")
	}

	contacts, err := svc.ListContactsByList(context.Background(), "u1", summary.List.ID)
	if err != nil {
		t.Fatalf("ListContactsByList() error = %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("stored %d contacts, want 1", len(contacts))
	}
	c := contacts[0]
	if c.Email != "john@x.com" || c.FirstName != "John" || c.LastName != "Doe" || c.Status != StatusReplied {
		t.Errorf("stored contact = %+v", c)
	}

	activities, _ := svc.ListActivities(context.Background(), "u1", 0)
	if len(activities) != 1 || activities[0].Type != ActivityCSVImport {
		t.Errorf("expected one csv_import activity, got %+v", activities)
	}
}

func TestImportCSVSameFileTwice(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	data := []byte("Email\njohn@x.com\n")

	if _, err := svc.ImportCSV(context.Background(), "u1", "leads.csv", data, ColumnMapping{}); err != nil {
		t.Fatalf("first ImportCSV() error = %v", err)
	}

	// Same derived name and same file; the name check fires first.
	_, err := svc.ImportCSV(context.Background(), "u1", "leads.csv", data, ColumnMapping{})
	var dupName *DuplicateListNameError
	if !errors.As(err, &dupName) {
		t.Fatalf("second ImportCSV() error = %v, want DuplicateListNameError", err)
	}

	if len(store.lists) != 1 {
		t.Errorf("rejected import must not create a list, have %d", len(store.lists))
	}
}

func TestImportCSVUsersDoNotCollide(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	data := []byte("Email\njohn@x.com\n")

	if _, err := svc.ImportCSV(context.Background(), "u1", "leads.csv", data, ColumnMapping{}); err != nil {
		t.Fatalf("ImportCSV() u1 error = %v", err)
	}
	if _, err := svc.ImportCSV(context.Background(), "u2", "leads.csv", data, ColumnMapping{}); err != nil {
		t.Errorf("ImportCSV() u2 error = %v, uniqueness must be per user", err)
	}
}

func TestImportCSVMappingOverride(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	// "Contact" would never auto-detect as the email column.
	data := []byte("Contact,First Name\njohn@x.com,John\n")

	summary, err := svc.ImportCSV(context.Background(), "u1", "batch.csv", data,
		ColumnMapping{Email: "Contact"})
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("imported = %d, want 1", summary.Imported)
	}
	if store.contacts[0].Email != "john@x.com" {
		t.Errorf("email = %q, want %q", store.contacts[0].Email, "john@x.com")
	}
}

func TestImportCSVEmptyInput(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.ImportCSV(context.Background(), "u1", "empty.csv", []byte("Email,Name\n"), ColumnMapping{})
	if !errors.Is(err, csv.ErrEmptyInput) {
		t.Errorf("ImportCSV() error = %v, want ErrEmptyInput", err)
	}
}

func TestImportCSVReconcilesCountOnFailures(t *testing.T) {
	store := newFakeStore()
	store.failEmails["bad@x.com"] = true
	svc := newTestService(store)
	data := []byte("Email\ngood@x.com\nbad@x.com\n")

	summary, err := svc.ImportCSV(context.Background(), "u1", "mixed.csv", data, ColumnMapping{})
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if summary.Imported != 1 || summary.Failed != 1 {
		t.Errorf("summary = imported %d, failed %d; want 1, 1", summary.Imported, summary.Failed)
	}
	if summary.List.ContactCount != 1 {
		t.Errorf("contactCount = %d, want 1 after reconciliation", summary.List.ContactCount)
	}
}

func TestPreviewCSV(t *testing.T) {
	svc := newTestService(newFakeStore())
	data := []byte("Email,First Name\na@x.com,Ana\nb@x.com,Bo\nc@x.com,Cy\n")

	preview, err := svc.PreviewCSV(data, 2)
	if err != nil {
		t.Fatalf("PreviewCSV() error = %v", err)
	}
	if preview.RowCount != 3 {
		t.Errorf("rowCount = %d, want 3", preview.RowCount)
	}
	if len(preview.Sample) != 2 {
		t.Errorf("sample size = %d, want 2", len(preview.Sample))
	}
	if preview.Mapping.Email != "Email" || preview.Mapping.FirstName != "First Name" {
		t.Errorf("mapping = %+v", preview.Mapping)
	}
	if preview.Sample[0].Email != "a@x.com" {
		t.Errorf("first sample = %+v", preview.Sample[0])
	}
}

// ============================================================================
// Manual lists and contacts
// ============================================================================

func TestCreateManualList(t *testing.T) {
	svc := newTestService(newFakeStore())

	list, err := svc.CreateManualList(context.Background(), "u1", "Prospects", "warm intros")
	if err != nil {
		t.Fatalf("CreateManualList() error = %v", err)
	}
	if list.Name != "Prospects_17/11/2025" {
		t.Errorf("name = %q, want %q", list.Name, "Prospects_17/11/2025")
	}
	if list.Source != SourceManual || list.CSVFileName != nil {
		t.Errorf("list = %+v, want manual source without file name", list)
	}

	// Same name again, differing only in case.
	_, err = svc.CreateManualList(context.Background(), "u1", "PROSPECTS", "")
	var dup *DuplicateListNameError
	if !errors.As(err, &dup) {
		t.Errorf("duplicate CreateManualList() error = %v, want DuplicateListNameError", err)
	}
}

func TestAddContactBumpsCount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	list, err := svc.CreateManualList(context.Background(), "u1", "Prospects", "")
	if err != nil {
		t.Fatalf("CreateManualList() error = %v", err)
	}

	contact, err := svc.AddContact(context.Background(), "u1", Contact{
		ListID: list.ID,
		Email:  "ana@x.com",
	})
	if err != nil {
		t.Fatalf("AddContact() error = %v", err)
	}
	if contact.Status != StatusNotContacted {
		t.Errorf("status = %q, want default not_contacted", contact.Status)
	}

	got, _ := svc.GetList(context.Background(), "u1", list.ID)
	if got.ContactCount != 1 {
		t.Errorf("contactCount = %d, want 1", got.ContactCount)
	}
}

func TestAddContactUnknownList(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.AddContact(context.Background(), "u1", Contact{ListID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AddContact() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateContactRecordsStatusChange(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	list, _ := svc.CreateManualList(context.Background(), "u1", "Prospects", "")
	contact, _ := svc.AddContact(context.Background(), "u1", Contact{ListID: list.ID, Email: "ana@x.com"})

	updated, err := svc.UpdateContact(context.Background(), "u1", Contact{
		ID:     contact.ID,
		Email:  "ana@x.com",
		Status: StatusReplied,
	})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if updated.Status != StatusReplied {
		t.Errorf("status = %q, want replied", updated.Status)
	}
	if updated.ListID != list.ID {
		t.Errorf("listId = %q, want %q (list membership is immutable)", updated.ListID, list.ID)
	}

	activities, _ := svc.ListActivities(context.Background(), "u1", 0)
	var found bool
	for _, a := range activities {
		if a.Type == ActivityStatusChanged && a.ContactID == contact.ID {
			found = true
			if !strings.Contains(a.Detail, "Not Contacted") || !strings.Contains(a.Detail, "Replied") {
				t.Errorf("status change detail = %q", a.Detail)
			}
		}
	}
	if !found {
		t.Error("expected a status_changed activity")
	}
}

func TestUpdateContactKeepsStatusWhenOmitted(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	list, _ := svc.CreateManualList(context.Background(), "u1", "Prospects", "")
	contact, _ := svc.AddContact(context.Background(), "u1", Contact{
		ListID: list.ID, Email: "ana@x.com", Status: StatusReplied,
	})

	updated, err := svc.UpdateContact(context.Background(), "u1", Contact{
		ID:    contact.ID,
		Email: "ana@new.com",
	})
	if err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}
	if updated.Status != StatusReplied {
		t.Errorf("status = %q, want replied preserved", updated.Status)
	}

	activities, _ := svc.ListActivities(context.Background(), "u1", 0)
	for _, a := range activities {
		if a.Type == ActivityStatusChanged {
			t.Errorf("no status_changed activity expected, got %+v", a)
		}
	}
}

func TestDeleteContactDecrementsCount(t *testing.T) {
	svc := newTestService(newFakeStore())

	list, _ := svc.CreateManualList(context.Background(), "u1", "Prospects", "")
	contact, _ := svc.AddContact(context.Background(), "u1", Contact{ListID: list.ID, Email: "ana@x.com"})

	if err := svc.DeleteContact(context.Background(), "u1", contact.ID); err != nil {
		t.Fatalf("DeleteContact() error = %v", err)
	}

	got, _ := svc.GetList(context.Background(), "u1", list.ID)
	if got.ContactCount != 0 {
		t.Errorf("contactCount = %d, want 0", got.ContactCount)
	}
}

func TestDeleteListCascades(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	data := []byte("Email\na@x.com\nb@x.com\n")

	summary, err := svc.ImportCSV(context.Background(), "u1", "batch.csv", data, ColumnMapping{})
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	if err := svc.DeleteList(context.Background(), "u1", summary.List.ID); err != nil {
		t.Fatalf("DeleteList() error = %v", err)
	}

	if len(store.contacts) != 0 {
		t.Errorf("contacts remain after list delete: %+v", store.contacts)
	}
	if _, err := svc.GetList(context.Background(), "u1", summary.List.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetList() after delete error = %v, want ErrNotFound", err)
	}
}

// ============================================================================
// Templates
// ============================================================================

func TestRenderTemplateForContact(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	list, _ := svc.CreateManualList(context.Background(), "u1", "Prospects", "")
	contact, _ := svc.AddContact(context.Background(), "u1", Contact{
		ListID: list.ID, FirstName: "Ana", Company: "Acme",
	})
	tpl, err := svc.CreateTemplate(context.Background(), "u1", Template{
		Title:   "Intro",
		Content: "Hi {{firstName}}, congrats on {{company}}!",
	})
	if err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}

	rendered, err := svc.RenderTemplateForContact(context.Background(), "u1", tpl.ID, contact.ID)
	if err != nil {
		t.Fatalf("RenderTemplateForContact() error = %v", err)
	}
	if rendered != "Hi Ana, congrats on Acme!" {
		t.Errorf("rendered = %q", rendered)
	}

	activities, _ := svc.ListActivities(context.Background(), "u1", 0)
	var found bool
	for _, a := range activities {
		if a.Type == ActivityTemplateUsed && a.TemplateID == tpl.ID && a.ContactID == contact.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected a template_used activity")
	}
}

func TestRenderTemplateForContactMissingContact(t *testing.T) {
	svc := newTestService(newFakeStore())

	tpl, _ := svc.CreateTemplate(context.Background(), "u1", Template{Title: "t", Content: "c"})

	_, err := svc.RenderTemplateForContact(context.Background(), "u1", tpl.ID, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
