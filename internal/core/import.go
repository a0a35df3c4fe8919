package core

import (
	"fmt"
	"strings"
	"time"
)

// DuplicateListNameError is returned when a derived list name collides,
// case-insensitively and trim-normalized, with an existing list.
type DuplicateListNameError struct {
	Name string
}

func (e *DuplicateListNameError) Error() string {
	return fmt.Sprintf("a list named %q already exists", e.Name)
}

// DuplicateFileNameError is returned when a CSV file with the same name
// (extension-stripped, trimmed, case-insensitive) was already imported.
type DuplicateFileNameError struct {
	FileName string
}

func (e *DuplicateFileNameError) Error() string {
	return fmt.Sprintf("the file %q has already been imported", e.FileName)
}

// ExistingList is the slice of list state the uniqueness checks need,
// supplied by the persistence layer before each import attempt.
type ExistingList struct {
	Name        string
	CSVFileName *string
}

// ImportResult pairs the materialized list record with the surviving
// candidate contacts. Neither is persisted yet; identity and timestamps
// are the repository's responsibility.
type ImportResult struct {
	List     ContactList
	Contacts []CandidateContact
}

// BuildImport materializes a contact list from mapped rows. It derives the
// list name as "<baseName>_<dd/mm/yyyy>" from the given name and clock,
// enforces case-insensitive uniqueness of the name and (for CSV imports)
// of the source filename, and filters out rows with no identity fields.
//
// BuildImport is pure and atomic: it performs no I/O and fails with one of
// the two duplicate errors before any row is touched.
func BuildImport(rows []CandidateContact, name string, source ListSource, description string, existing []ExistingList, now time.Time) (*ImportResult, error) {
	baseName := strings.TrimSpace(stripCSVExt(name))
	listName := fmt.Sprintf("%s_%s", baseName, now.Format("02/01/2006"))

	for _, ex := range existing {
		if normalizeName(ex.Name) == normalizeName(listName) {
			return nil, &DuplicateListNameError{Name: listName}
		}
	}

	if source == SourceCSVImport {
		fileKey := normalizeName(stripCSVExt(name))
		for _, ex := range existing {
			if ex.CSVFileName == nil {
				continue
			}
			if normalizeName(stripCSVExt(*ex.CSVFileName)) == fileKey {
				return nil, &DuplicateFileNameError{FileName: strings.TrimSpace(name)}
			}
		}
	}

	contacts := make([]CandidateContact, 0, len(rows))
	for _, row := range rows {
		if row.HasIdentity() {
			contacts = append(contacts, row)
		}
	}

	list := ContactList{
		Name:         listName,
		Source:       source,
		ContactCount: len(contacts),
	}
	if source == SourceCSVImport {
		fileName := strings.TrimSpace(name)
		list.CSVFileName = &fileName
	}
	if desc := strings.TrimSpace(description); desc != "" {
		list.Description = &desc
	}

	return &ImportResult{List: list, Contacts: contacts}, nil
}

// stripCSVExt removes one trailing ".csv" suffix, case-insensitively.
func stripCSVExt(name string) string {
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".csv") {
		return name[:len(name)-4]
	}
	return name
}

// normalizeName is the comparison form for uniqueness checks.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
