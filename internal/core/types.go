// Package core provides the business logic for the outreach contact manager:
// CSV import mapping and orchestration, message templates, activity logging,
// and derived analytics. This package has no transport or storage
// dependencies and can be driven by web handlers, CLI tools, or tests
// without modification.
package core

import (
	"strings"
	"time"
)

// ContactStatus is the outreach-pipeline stage of a contact.
type ContactStatus string

const (
	StatusNotContacted     ContactStatus = "not_contacted"
	StatusContacted        ContactStatus = "contacted"
	StatusReplied          ContactStatus = "replied"
	StatusMeetingScheduled ContactStatus = "meeting_scheduled"
	StatusMeetingCompleted ContactStatus = "meeting_completed"
	StatusQualified        ContactStatus = "qualified"
	StatusNotQualified     ContactStatus = "not_qualified"
	StatusNoResponse       ContactStatus = "no_response"
)

// allStatuses is ordered by pipeline stage; iteration order matters for
// label matching and analytics output.
var allStatuses = []ContactStatus{
	StatusNotContacted,
	StatusContacted,
	StatusReplied,
	StatusMeetingScheduled,
	StatusMeetingCompleted,
	StatusQualified,
	StatusNotQualified,
	StatusNoResponse,
}

var statusLabels = map[ContactStatus]string{
	StatusNotContacted:     "Not Contacted",
	StatusContacted:        "Contacted",
	StatusReplied:          "Replied",
	StatusMeetingScheduled: "Meeting Scheduled",
	StatusMeetingCompleted: "Meeting Completed",
	StatusQualified:        "Qualified",
	StatusNotQualified:     "Not Qualified",
	StatusNoResponse:       "No Response",
}

// AllStatuses returns every contact status in pipeline order.
func AllStatuses() []ContactStatus {
	out := make([]ContactStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Label returns the display label for a status ("Meeting Scheduled" etc.).
func (s ContactStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known status value.
func (s ContactStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus normalizes a raw CSV value into a ContactStatus: lower-cased
// with whitespace runs collapsed to underscores, matched against the enum
// by value, then case-insensitively against each display label. Absent or
// unrecognized values default to StatusNotContacted.
func ParseStatus(raw string) ContactStatus {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StatusNotContacted
	}

	norm := ContactStatus(strings.Join(strings.Fields(strings.ToLower(trimmed)), "_"))
	if norm.Valid() {
		return norm
	}

	for _, s := range allStatuses {
		if strings.EqualFold(trimmed, statusLabels[s]) {
			return s
		}
	}

	return StatusNotContacted
}

// ListSource identifies how a contact list was created.
type ListSource string

const (
	SourceCSVImport ListSource = "csv_import"
	SourceManual    ListSource = "manual"
)

// ContactList groups a batch of contacts, either from one CSV upload or
// created manually. ID, UserID and timestamps are assigned by the
// repository on create.
type ContactList struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Name         string     `json:"name"`
	CSVFileName  *string    `json:"csvFileName"`
	Source       ListSource `json:"source"`
	ContactCount int        `json:"contactCount"`
	Description  *string    `json:"description"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CandidateContact is an unmaterialized contact produced by the mapping
// step, prior to persistence. It carries no identity or ownership.
type CandidateContact struct {
	Email         string        `json:"email,omitempty"`
	FirstName     string        `json:"firstName,omitempty"`
	LastName      string        `json:"lastName,omitempty"`
	Company       string        `json:"company,omitempty"`
	Status        ContactStatus `json:"status"`
	Message       string        `json:"message,omitempty"`
	TemplateTitle string        `json:"templateTitle,omitempty"`
}

// HasIdentity reports whether at least one of email, first name, last name
// or company is non-empty after trimming. Rows without identity are dropped
// silently at materialization.
func (c CandidateContact) HasIdentity() bool {
	return strings.TrimSpace(c.Email) != "" ||
		strings.TrimSpace(c.FirstName) != "" ||
		strings.TrimSpace(c.LastName) != "" ||
		strings.TrimSpace(c.Company) != ""
}

// Contact is a persisted contact record.
type Contact struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	ListID        string        `json:"listId"`
	Email         string        `json:"email,omitempty"`
	FirstName     string        `json:"firstName,omitempty"`
	LastName      string        `json:"lastName,omitempty"`
	Company       string        `json:"company,omitempty"`
	Status        ContactStatus `json:"status"`
	Message       string        `json:"message,omitempty"`
	TemplateTitle string        `json:"templateTitle,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// FullName joins the first and last name, skipping empty parts.
func (c Contact) FullName() string {
	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// Template is a reusable outreach message with placeholders.
type Template struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ActivityType classifies an activity log entry.
type ActivityType string

const (
	ActivityMessageSent      ActivityType = "message_sent"
	ActivityReplyReceived    ActivityType = "reply_received"
	ActivityMeetingScheduled ActivityType = "meeting_scheduled"
	ActivityStatusChanged    ActivityType = "status_changed"
	ActivityCSVImport        ActivityType = "csv_import"
	ActivityTemplateUsed     ActivityType = "template_used"
)

// Activity is one append-only log entry. ContactID, ListID and TemplateID
// are optional references; empty means not applicable.
type Activity struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	Type       ActivityType `json:"type"`
	ContactID  string       `json:"contactId,omitempty"`
	ListID     string       `json:"listId,omitempty"`
	TemplateID string       `json:"templateId,omitempty"`
	Detail     string       `json:"detail,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}
