package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reachforge/outreach/internal/core"
)

const contactColumns = "id, user_id, list_id, email, first_name, last_name, company, status, message, template_title, created_at, updated_at"

func (s *Store) CreateContact(ctx context.Context, contact core.Contact) (core.Contact, error) {
	contact.ID = uuid.NewString()
	contact.CreatedAt = time.Now().UTC()
	contact.UpdatedAt = contact.CreatedAt
	if contact.Status == "" {
		contact.Status = core.StatusNotContacted
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO contacts (id, user_id, list_id, email, first_name, last_name, company, status, message, template_title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		contact.ID, contact.UserID, contact.ListID, contact.Email, contact.FirstName,
		contact.LastName, contact.Company, contact.Status, contact.Message,
		contact.TemplateTitle, contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return core.Contact{}, err
	}
	return contact, nil
}

func (s *Store) GetContact(ctx context.Context, userID, id string) (core.Contact, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1 AND user_id = $2`, id, userID)
	return scanContact(row)
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]core.Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (s *Store) ListContactsByList(ctx context.Context, userID, listID string) ([]core.Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = $1 AND list_id = $2
		ORDER BY created_at, id`, userID, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (s *Store) UpdateContact(ctx context.Context, contact core.Contact) (core.Contact, error) {
	contact.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE contacts
		SET email = $1, first_name = $2, last_name = $3, company = $4,
		    status = $5, message = $6, template_title = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10`,
		contact.Email, contact.FirstName, contact.LastName, contact.Company,
		contact.Status, contact.Message, contact.TemplateTitle, contact.UpdatedAt,
		contact.ID, contact.UserID,
	)
	if err != nil {
		return core.Contact{}, err
	}
	if tag.RowsAffected() == 0 {
		return core.Contact{}, core.ErrNotFound
	}
	return s.GetContact(ctx, contact.UserID, contact.ID)
}

func (s *Store) DeleteContact(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContactsByList(ctx context.Context, userID, listID string) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM contacts
		WHERE user_id = $1 AND list_id = $2`, userID, listID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanContact(row rowScanner) (core.Contact, error) {
	var c core.Contact
	err := row.Scan(
		&c.ID, &c.UserID, &c.ListID, &c.Email, &c.FirstName, &c.LastName,
		&c.Company, &c.Status, &c.Message, &c.TemplateTitle, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return core.Contact{}, notFound(err)
	}
	return c, nil
}

type pgxRows interface {
	rowScanner
	Next() bool
	Err() error
}

func collectContacts(rows pgxRows) ([]core.Contact, error) {
	var out []core.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
