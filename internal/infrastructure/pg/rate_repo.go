package pg

import (
	"context"
	"fmt"

	"tjrates-service/internal/application"
	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
)

// RateRepo is the bank observation sink and reader. Saves are append-only:
// two identical saves produce two rows.
type RateRepo struct{ db *DB }

func NewRateRepo(db *DB) *RateRepo { return &RateRepo{db: db} }

var _ application.RateSink = (*RateRepo)(nil)
var _ application.RateRepo = (*RateRepo)(nil)

func (r *RateRepo) SaveObservation(ctx context.Context, bank scrape.BankInfo, rate domain.NormalizedRate) (domain.RateObservation, error) {
	q := r.db.q(ctx)

	currencyID, err := r.currencyID(ctx, rate.Code)
	if err != nil {
		return domain.RateObservation{}, err
	}
	bankID, err := r.bankID(ctx, bank)
	if err != nil {
		return domain.RateObservation{}, err
	}

	out := domain.RateObservation{
		BankName: bank.Name,
		Code:     rate.Code,
		Buy:      rate.Buy,
		Sell:     rate.Sell,
		IsActive: true,
	}
	err = q.QueryRow(ctx, `
        INSERT INTO exchange_rates(bank_id, currency_id, buy, sell, is_active)
        VALUES ($1, $2, $3, $4, TRUE)
        RETURNING id, created_at`,
		bankID, currencyID, rate.Buy, rate.Sell,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return domain.RateObservation{}, fmt.Errorf("insert observation: %w", err)
	}
	return out, nil
}

// currencyID gets or lazily creates the currency row. The insert-then-select
// pair is safe under concurrency: ON CONFLICT DO NOTHING makes the insert a
// no-op when another writer got there first.
func (r *RateRepo) currencyID(ctx context.Context, code string) (int64, error) {
	q := r.db.q(ctx)
	meta, ok := domain.CurrencyMeta[code]
	if !ok {
		meta = domain.Currency{Code: code, Name: code}
	}
	_, err := q.Exec(ctx, `
        INSERT INTO currencies(code, name, symbol, is_active)
        VALUES ($1, $2, $3, TRUE)
        ON CONFLICT (code) DO NOTHING`,
		meta.Code, meta.Name, meta.Symbol)
	if err != nil {
		return 0, fmt.Errorf("ensure currency %s: %w", code, err)
	}
	var id int64
	if err := q.QueryRow(ctx, `SELECT id FROM currencies WHERE code=$1`, code).Scan(&id); err != nil {
		return 0, fmt.Errorf("select currency %s: %w", code, err)
	}
	return id, nil
}

func (r *RateRepo) bankID(ctx context.Context, bank scrape.BankInfo) (int64, error) {
	q := r.db.q(ctx)
	_, err := q.Exec(ctx, `
        INSERT INTO banks(name, short_name, website, is_active)
        VALUES ($1, $2, $3, TRUE)
        ON CONFLICT (name) DO NOTHING`,
		bank.Name, bank.ShortName, bank.Website)
	if err != nil {
		return 0, fmt.Errorf("ensure bank %s: %w", bank.Name, err)
	}
	var id int64
	if err := q.QueryRow(ctx, `SELECT id FROM banks WHERE name=$1`, bank.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("select bank %s: %w", bank.Name, err)
	}
	return id, nil
}

// LatestByBank returns the newest observation per bank and currency.
func (r *RateRepo) LatestByBank(ctx context.Context) ([]domain.RateObservation, error) {
	rows, err := r.db.q(ctx).Query(ctx, `
        SELECT DISTINCT ON (er.bank_id, er.currency_id)
               er.id, b.name, c.code, er.buy::text, er.sell::text, er.is_active, er.created_at
        FROM exchange_rates er
        JOIN banks b ON b.id = er.bank_id
        JOIN currencies c ON c.id = er.currency_id
        ORDER BY er.bank_id, er.currency_id, er.created_at DESC, er.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RateObservation
	for rows.Next() {
		var o domain.RateObservation
		if err := rows.Scan(&o.ID, &o.BankName, &o.Code, &o.Buy, &o.Sell, &o.IsActive, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
