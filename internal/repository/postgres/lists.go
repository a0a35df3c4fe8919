package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reachforge/outreach/internal/core"
)

const listColumns = "id, user_id, name, csv_file_name, source, contact_count, description, created_at, updated_at"

func (s *Store) CreateList(ctx context.Context, list core.ContactList) (core.ContactList, error) {
	list.ID = uuid.NewString()
	list.CreatedAt = time.Now().UTC()
	list.UpdatedAt = list.CreatedAt

	_, err := s.pool.Exec(ctx, `
		INSERT INTO contact_lists (id, user_id, name, csv_file_name, source, contact_count, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		list.ID, list.UserID, list.Name, list.CSVFileName, list.Source,
		list.ContactCount, list.Description, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return core.ContactList{}, err
	}
	return list, nil
}

func (s *Store) GetList(ctx context.Context, userID, id string) (core.ContactList, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+listColumns+`
		FROM contact_lists
		WHERE id = $1 AND user_id = $2`, id, userID)
	return scanList(row)
}

func (s *Store) ListLists(ctx context.Context, userID string) ([]core.ContactList, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+listColumns+`
		FROM contact_lists
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.ContactList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, list)
	}
	return out, rows.Err()
}

func (s *Store) UpdateList(ctx context.Context, list core.ContactList) (core.ContactList, error) {
	list.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE contact_lists
		SET name = $1, contact_count = $2, description = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`,
		list.Name, list.ContactCount, list.Description, list.UpdatedAt, list.ID, list.UserID,
	)
	if err != nil {
		return core.ContactList{}, err
	}
	if tag.RowsAffected() == 0 {
		return core.ContactList{}, core.ErrNotFound
	}
	return s.GetList(ctx, list.UserID, list.ID)
}

func (s *Store) DeleteList(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM contact_lists
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (core.ContactList, error) {
	var list core.ContactList
	err := row.Scan(
		&list.ID, &list.UserID, &list.Name, &list.CSVFileName, &list.Source,
		&list.ContactCount, &list.Description, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		return core.ContactList{}, notFound(err)
	}
	return list, nil
}
