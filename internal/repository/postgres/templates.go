package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reachforge/outreach/internal/core"
)

const templateColumns = "id, user_id, title, content, category, created_at, updated_at"

func (s *Store) CreateTemplate(ctx context.Context, tpl core.Template) (core.Template, error) {
	tpl.ID = uuid.NewString()
	tpl.CreatedAt = time.Now().UTC()
	tpl.UpdatedAt = tpl.CreatedAt

	_, err := s.pool.Exec(ctx, `
		INSERT INTO templates (id, user_id, title, content, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tpl.ID, tpl.UserID, tpl.Title, tpl.Content, tpl.Category, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		return core.Template{}, err
	}
	return tpl, nil
}

func (s *Store) GetTemplate(ctx context.Context, userID, id string) (core.Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTemplate(row)
}

func (s *Store) ListTemplates(ctx context.Context, userID string) ([]core.Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTemplate(ctx context.Context, tpl core.Template) (core.Template, error) {
	tpl.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE templates
		SET title = $1, content = $2, category = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`,
		tpl.Title, tpl.Content, tpl.Category, tpl.UpdatedAt, tpl.ID, tpl.UserID,
	)
	if err != nil {
		return core.Template{}, err
	}
	if tag.RowsAffected() == 0 {
		return core.Template{}, core.ErrNotFound
	}
	return s.GetTemplate(ctx, tpl.UserID, tpl.ID)
}

func (s *Store) DeleteTemplate(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM templates
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanTemplate(row rowScanner) (core.Template, error) {
	var tpl core.Template
	err := row.Scan(&tpl.ID, &tpl.UserID, &tpl.Title, &tpl.Content, &tpl.Category, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return core.Template{}, notFound(err)
	}
	return tpl, nil
}
