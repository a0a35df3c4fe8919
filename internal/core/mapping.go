package core

import (
	"strings"

	"github.com/reachforge/outreach/internal/csv"
)

// ColumnMapping binds logical contact fields to CSV header names. An empty
// string means the field is unmapped. Built by AutoDetectMapping and
// optionally overridden by the caller before mapping rows.
type ColumnMapping struct {
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Company       string `json:"company,omitempty"`
	Status        string `json:"status,omitempty"`
	Message       string `json:"message,omitempty"`
	TemplateTitle string `json:"templateTitle,omitempty"`
}

// Merge returns m with every non-empty field of override applied on top.
func (m ColumnMapping) Merge(override ColumnMapping) ColumnMapping {
	if override.Email != "" {
		m.Email = override.Email
	}
	if override.FirstName != "" {
		m.FirstName = override.FirstName
	}
	if override.LastName != "" {
		m.LastName = override.LastName
	}
	if override.Company != "" {
		m.Company = override.Company
	}
	if override.Status != "" {
		m.Status = override.Status
	}
	if override.Message != "" {
		m.Message = override.Message
	}
	if override.TemplateTitle != "" {
		m.TemplateTitle = override.TemplateTitle
	}
	return m
}

// AutoDetectMapping guesses a ColumnMapping from CSV header names by
// lower-cased substring matching. The first header satisfying a field's
// predicate wins for that field; a single header may satisfy several
// fields. Pure function: identical headers always yield an identical
// mapping.
func AutoDetectMapping(headers []string) ColumnMapping {
	var m ColumnMapping
	for _, h := range headers {
		lower := strings.ToLower(h)

		if m.Email == "" && strings.Contains(lower, "email") {
			m.Email = h
		}
		// "first"/"last" alone is enough: exports commonly label the
		// columns just "First" and "Last".
		if m.FirstName == "" && strings.Contains(lower, "first") {
			m.FirstName = h
		}
		if m.LastName == "" && strings.Contains(lower, "last") {
			m.LastName = h
		}
		if m.Company == "" && strings.Contains(lower, "company") {
			m.Company = h
		}
		if m.Status == "" && strings.Contains(lower, "status") {
			m.Status = h
		}
		if m.Message == "" && (strings.Contains(lower, "message") || strings.Contains(lower, "sent")) {
			m.Message = h
		}
		if m.TemplateTitle == "" && strings.Contains(lower, "template") {
			m.TemplateTitle = h
		}
	}
	return m
}

// MapRows converts parsed CSV rows into candidate contacts using the given
// column mapping. Output order equals input row order and no row is dropped
// here; emptiness filtering happens at materialization in BuildImport.
func MapRows(table *csv.Table, mapping ColumnMapping) []CandidateContact {
	contacts := make([]CandidateContact, 0, len(table.Rows))
	for _, row := range table.Rows {
		contacts = append(contacts, CandidateContact{
			Email:         lookup(row, mapping.Email),
			FirstName:     lookup(row, mapping.FirstName),
			LastName:      lookup(row, mapping.LastName),
			Company:       lookup(row, mapping.Company),
			Status:        ParseStatus(lookup(row, mapping.Status)),
			Message:       lookup(row, mapping.Message),
			TemplateTitle: lookup(row, mapping.TemplateTitle),
		})
	}
	return contacts
}

func lookup(row map[string]string, header string) string {
	if header == "" {
		return ""
	}
	return row[header]
}
