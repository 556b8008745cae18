package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tjrates-service/internal/application"
	"tjrates-service/internal/domain"
)

type MarketRateRepo struct{ db *DB }

func NewMarketRateRepo(db *DB) *MarketRateRepo { return &MarketRateRepo{db: db} }

var _ application.MarketRateRepo = (*MarketRateRepo)(nil)

func (r *MarketRateRepo) Append(ctx context.Context, m domain.MarketRate) (int64, error) {
	var id int64
	err := r.db.q(ctx).QueryRow(ctx, `
        INSERT INTO market_rates(code, city_name, buy, sell, added_by, notes, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		m.Code, m.CityName, m.Buy, m.Sell, m.AddedBy, m.Notes, m.IsActive, m.CreatedAt,
	).Scan(&id)
	return id, err
}

func (r *MarketRateRepo) GetByID(ctx context.Context, id int64) (domain.MarketRate, error) {
	var m domain.MarketRate
	err := r.db.q(ctx).QueryRow(ctx, `
        SELECT id, code, city_name, buy::text, sell::text, added_by, notes, is_active, created_at
        FROM market_rates WHERE id=$1`, id,
	).Scan(&m.ID, &m.Code, &m.CityName, &m.Buy, &m.Sell, &m.AddedBy, &m.Notes, &m.IsActive, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MarketRate{}, application.ErrNotFound
	}
	return m, err
}

func (r *MarketRateRepo) ListActive(ctx context.Context) ([]domain.MarketRate, error) {
	return r.list(ctx, `
        SELECT id, code, city_name, buy::text, sell::text, added_by, notes, is_active, created_at
        FROM market_rates WHERE is_active ORDER BY created_at DESC`)
}

func (r *MarketRateRepo) ListActiveByCity(ctx context.Context, city string) ([]domain.MarketRate, error) {
	return r.list(ctx, `
        SELECT id, code, city_name, buy::text, sell::text, added_by, notes, is_active, created_at
        FROM market_rates WHERE is_active AND city_name=$1 ORDER BY created_at DESC`, city)
}

func (r *MarketRateRepo) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.q(ctx).Exec(ctx, `UPDATE market_rates SET is_active=FALSE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *MarketRateRepo) list(ctx context.Context, sql string, args ...any) ([]domain.MarketRate, error) {
	rows, err := r.db.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MarketRate
	for rows.Next() {
		var m domain.MarketRate
		if err := rows.Scan(&m.ID, &m.Code, &m.CityName, &m.Buy, &m.Sell, &m.AddedBy, &m.Notes, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
