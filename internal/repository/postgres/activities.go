package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reachforge/outreach/internal/core"
)

func (s *Store) CreateActivity(ctx context.Context, activity core.Activity) (core.Activity, error) {
	activity.ID = uuid.NewString()
	activity.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO activities (id, user_id, type, contact_id, list_id, template_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		activity.ID, activity.UserID, activity.Type, activity.ContactID,
		activity.ListID, activity.TemplateID, activity.Detail, activity.CreatedAt,
	)
	if err != nil {
		return core.Activity{}, err
	}
	return activity, nil
}

func (s *Store) ListActivities(ctx context.Context, userID string, limit int) ([]core.Activity, error) {
	query := `
		SELECT id, user_id, type, contact_id, list_id, template_id, detail, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Activity
	for rows.Next() {
		var a core.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.ContactID, &a.ListID, &a.TemplateID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
