package core

import "context"

// Repository interfaces are defined here, next to the types they traffic
// in; implementations live in internal/repository. Every call is scoped to
// a userID and returns ErrNotFound for records that do not exist or belong
// to another user. Create calls assign ID, UserID (from the passed record)
// and timestamps, and return the stored shape.

// ListRepository persists contact lists.
type ListRepository interface {
	CreateList(ctx context.Context, list ContactList) (ContactList, error)
	GetList(ctx context.Context, userID, id string) (ContactList, error)
	ListLists(ctx context.Context, userID string) ([]ContactList, error)
	UpdateList(ctx context.Context, list ContactList) (ContactList, error)
	DeleteList(ctx context.Context, userID, id string) error
}

// ContactRepository persists contacts.
type ContactRepository interface {
	CreateContact(ctx context.Context, contact Contact) (Contact, error)
	GetContact(ctx context.Context, userID, id string) (Contact, error)
	ListContacts(ctx context.Context, userID string) ([]Contact, error)
	ListContactsByList(ctx context.Context, userID, listID string) ([]Contact, error)
	UpdateContact(ctx context.Context, contact Contact) (Contact, error)
	DeleteContact(ctx context.Context, userID, id string) error
	DeleteContactsByList(ctx context.Context, userID, listID string) (int, error)
}

// TemplateRepository persists message templates.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, tpl Template) (Template, error)
	GetTemplate(ctx context.Context, userID, id string) (Template, error)
	ListTemplates(ctx context.Context, userID string) ([]Template, error)
	UpdateTemplate(ctx context.Context, tpl Template) (Template, error)
	DeleteTemplate(ctx context.Context, userID, id string) error
}

// ActivityRepository persists the append-only activity log.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) (Activity, error)
	ListActivities(ctx context.Context, userID string, limit int) ([]Activity, error)
}
