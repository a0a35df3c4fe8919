package core

import (
	"errors"
	"strings"

	"github.com/reachforge/outreach/internal/csv"
)

// ErrNotFound is returned by repositories when a record does not exist or
// belongs to another user.
var ErrNotFound = errors.New("record not found")

// UserMessage provides user-friendly error information with actionable
// guidance. Code is quoted to support staff for faster diagnosis.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern maps a technical error substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is the fallback table for errors that are not one of the
// typed domain errors. Patterns are matched case-insensitively with
// strings.Contains; the first match wins, so specific patterns come before
// general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
}

// MapError converts a technical error into a user-facing message. Typed
// domain errors map to dedicated codes with the offending name embedded;
// everything else falls back to substring matching, then to a generic
// message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var dupName *DuplicateListNameError
	if errors.As(err, &dupName) {
		return UserMessage{
			Message: dupName.Error(),
			Action:  "Choose a different list name or delete the existing list",
			Code:    "IMP001",
		}
	}

	var dupFile *DuplicateFileNameError
	if errors.As(err, &dupFile) {
		return UserMessage{
			Message: dupFile.Error(),
			Action:  "Rename the file or delete the list created from the previous import",
			Code:    "IMP002",
		}
	}

	if errors.Is(err, csv.ErrEmptyInput) {
		return UserMessage{
			Message: "The file contains no data rows",
			Action:  "Upload a CSV with a header row and at least one data row",
			Code:    "IMP003",
		}
	}

	if errors.Is(err, ErrNotFound) {
		return UserMessage{
			Message: "The requested record was not found",
			Action:  "Refresh and try again",
			Code:    "REQ404",
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
}
