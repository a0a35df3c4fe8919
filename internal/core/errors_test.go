package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reachforge/outreach/internal/csv"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "duplicate list name",
			err:      &DuplicateListNameError{Name: "batch_17/11/2025"},
			wantCode: "IMP001",
		},
		{
			name:     "duplicate list name wrapped",
			err:      fmt.Errorf("import: %w", &DuplicateListNameError{Name: "x"}),
			wantCode: "IMP001",
		},
		{
			name:     "duplicate file name",
			err:      &DuplicateFileNameError{FileName: "leads.csv"},
			wantCode: "IMP002",
		},
		{
			name:     "empty csv input",
			err:      csv.ErrEmptyInput,
			wantCode: "IMP003",
		},
		{
			name:     "not found wrapped",
			err:      fmt.Errorf("get list: %w", ErrNotFound),
			wantCode: "REQ404",
		},
		{
			name:     "unique constraint from database",
			err:      errors.New(`ERROR: duplicate key value violates unique constraint "contacts_pkey"`),
			wantCode: "DB001",
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode: "DB002",
		},
		{
			name:     "context deadline",
			err:      errors.New("context deadline exceeded"),
			wantCode: "REQ002",
		},
		{
			name:     "unknown error",
			err:      errors.New("something odd"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" || got.Action == "" {
				t.Errorf("MapError(%v) returned incomplete message: %+v", tt.err, got)
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
}

func TestMapErrorEmbedsOffendingName(t *testing.T) {
	got := MapError(&DuplicateListNameError{Name: "batch_17/11/2025"})
	if want := `a list named "batch_17/11/2025" already exists`; got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}
