package pg_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/infrastructure/pg"
	"tjrates-service/internal/scrape"
)

func TestSaveObservationAppendsDuplicates(t *testing.T) {
	t.Parallel()
	db, teardown := withPostgres(t)
	defer teardown()

	ctx := context.Background()
	repo := pg.NewRateRepo(db)
	bank := scrape.BankInfo{Name: "Eskhata", ShortName: "ESK", Website: "https://eskhata.com"}
	rate := domain.NormalizedRate{
		Code: "USD",
		Buy:  decimal.RequireFromString("10.55"),
		Sell: decimal.RequireFromString("10.70"),
	}

	first, err := repo.SaveObservation(ctx, bank, rate)
	require.NoError(t, err)
	second, err := repo.SaveObservation(ctx, bank, rate)
	require.NoError(t, err)

	// Identical input twice still makes two rows.
	require.NotEqual(t, first.ID, second.ID)

	var count int
	err = db.Pool.QueryRow(ctx, `SELECT count(*) FROM exchange_rates`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	var banks int
	err = db.Pool.QueryRow(ctx, `SELECT count(*) FROM banks WHERE name='Eskhata'`).Scan(&banks)
	require.NoError(t, err)
	require.Equal(t, 1, banks)
}

func TestLatestByBank(t *testing.T) {
	t.Parallel()
	db, teardown := withPostgres(t)
	defer teardown()

	ctx := context.Background()
	repo := pg.NewRateRepo(db)
	bank := scrape.BankInfo{Name: "Humo", ShortName: "HUMO"}

	old := domain.NormalizedRate{Code: "USD",
		Buy: decimal.RequireFromString("10.40"), Sell: decimal.RequireFromString("10.60")}
	fresh := domain.NormalizedRate{Code: "USD",
		Buy: decimal.RequireFromString("10.55"), Sell: decimal.RequireFromString("10.75")}

	_, err := repo.SaveObservation(ctx, bank, old)
	require.NoError(t, err)
	_, err = repo.SaveObservation(ctx, bank, fresh)
	require.NoError(t, err)

	latest, err := repo.LatestByBank(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, "Humo", latest[0].BankName)
	require.True(t, latest[0].Buy.Equal(fresh.Buy))
}
