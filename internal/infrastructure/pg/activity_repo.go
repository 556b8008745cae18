package pg

import (
	"context"

	"tjrates-service/internal/application"
	"tjrates-service/internal/domain"
)

type ActivityRepo struct{ db *DB }

func NewActivityRepo(db *DB) *ActivityRepo { return &ActivityRepo{db: db} }

var _ application.ActivityRepo = (*ActivityRepo)(nil)

func (r *ActivityRepo) Append(ctx context.Context, a domain.WorkerActivity) error {
	_, err := r.db.q(ctx).Exec(ctx, `
        INSERT INTO worker_activities(worker_id, action, description, rate_id, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		a.WorkerID, a.Action, a.Description, a.RateID, a.CreatedAt)
	return err
}

func (r *ActivityRepo) List(ctx context.Context, limit int) ([]domain.WorkerActivity, error) {
	rows, err := r.db.q(ctx).Query(ctx, `
        SELECT id, worker_id, action, description, rate_id, created_at
        FROM worker_activities ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WorkerActivity
	for rows.Next() {
		var a domain.WorkerActivity
		if err := rows.Scan(&a.ID, &a.WorkerID, &a.Action, &a.Description, &a.RateID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
