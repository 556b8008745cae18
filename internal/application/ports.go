package application

import (
	"context"
	"time"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
)

// RateSink receives normalized bank observations. Implementations append
// every call as a new row; they never deduplicate.
type RateSink interface {
	SaveObservation(ctx context.Context, bank scrape.BankInfo, rate domain.NormalizedRate) (domain.RateObservation, error)
}

// RateRepo reads back the bank observation history.
type RateRepo interface {
	LatestByBank(ctx context.Context) ([]domain.RateObservation, error)
}

type MarketRateRepo interface {
	Append(ctx context.Context, r domain.MarketRate) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.MarketRate, error)
	ListActive(ctx context.Context) ([]domain.MarketRate, error)
	ListActiveByCity(ctx context.Context, city string) ([]domain.MarketRate, error)
	Deactivate(ctx context.Context, id int64) error
}

type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, u domain.User) (int64, error)
	SetWorkerActive(ctx context.Context, id int64, active bool) error
	ListWorkers(ctx context.Context) ([]domain.User, error)
}

// ActivityRepo appends and reads the worker audit log. Rows are append-only.
type ActivityRepo interface {
	Append(ctx context.Context, a domain.WorkerActivity) error
	List(ctx context.Context, limit int) ([]domain.WorkerActivity, error)
}

// RunLock serializes scrape runs across processes.
type RunLock interface {
	// TryLock returns true if the lock was free and is now held.
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// NoopLock always grants the lock; useful for tests and one-shot CLI runs.
type NoopLock struct{}

func (NoopLock) TryLock(context.Context) (bool, error) { return true, nil }
func (NoopLock) Unlock(context.Context) error          { return nil }

// RunObserver counts per-source outcomes of a scrape run.
type RunObserver interface {
	SourceSucceeded(bank string, saved int)
	SourceFailed(bank string, kind scrape.Kind)
}

type noopObserver struct{}

func (noopObserver) SourceSucceeded(string, int)      {}
func (noopObserver) SourceFailed(string, scrape.Kind) {}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// PasswordHasher hides the hash algorithm from the service layer.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// TokenIssuer mints access tokens carrying the user's role and city.
type TokenIssuer interface {
	Issue(u domain.User) (string, error)
}
