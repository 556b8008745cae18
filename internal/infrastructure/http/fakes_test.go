package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tjrates-service/internal/application"
	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
)

var _ application.UserRepo = (*fakeUserRepo)(nil)
var _ application.MarketRateRepo = (*fakeMarketRepo)(nil)
var _ application.ActivityRepo = (*fakeActivityRepo)(nil)
var _ application.RateRepo = (*fakeRateRepo)(nil)
var _ application.RateSink = (*fakeSink)(nil)

type fakeUserRepo struct {
	users  map[int64]domain.User
	nextID int64
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, application.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, application.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u domain.User) (int64, error) {
	if f.users == nil {
		f.users = map[int64]domain.User{}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeUserRepo) SetWorkerActive(_ context.Context, id int64, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return application.ErrNotFound
	}
	u.WorkerActive = active
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) ListWorkers(context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.Role == domain.RoleCityWorker {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeMarketRepo struct {
	rates  map[int64]domain.MarketRate
	nextID int64
}

func (f *fakeMarketRepo) Append(_ context.Context, r domain.MarketRate) (int64, error) {
	if f.rates == nil {
		f.rates = map[int64]domain.MarketRate{}
	}
	f.nextID++
	r.ID = f.nextID
	f.rates[r.ID] = r
	return r.ID, nil
}

func (f *fakeMarketRepo) GetByID(_ context.Context, id int64) (domain.MarketRate, error) {
	r, ok := f.rates[id]
	if !ok {
		return domain.MarketRate{}, application.ErrNotFound
	}
	return r, nil
}

func (f *fakeMarketRepo) ListActive(context.Context) ([]domain.MarketRate, error) {
	var out []domain.MarketRate
	for _, r := range f.rates {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMarketRepo) ListActiveByCity(_ context.Context, city string) ([]domain.MarketRate, error) {
	var out []domain.MarketRate
	for _, r := range f.rates {
		if r.IsActive && r.CityName == city {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMarketRepo) Deactivate(_ context.Context, id int64) error {
	r, ok := f.rates[id]
	if !ok {
		return application.ErrNotFound
	}
	r.IsActive = false
	f.rates[id] = r
	return nil
}

type fakeActivityRepo struct {
	rows []domain.WorkerActivity
}

func (f *fakeActivityRepo) Append(_ context.Context, a domain.WorkerActivity) error {
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeActivityRepo) List(_ context.Context, limit int) ([]domain.WorkerActivity, error) {
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

type fakeRateRepo struct {
	latest []domain.RateObservation
}

func (f *fakeRateRepo) LatestByBank(context.Context) ([]domain.RateObservation, error) {
	return f.latest, nil
}

type fakeSink struct{ saved int }

func (f *fakeSink) SaveObservation(_ context.Context, bank scrape.BankInfo, rate domain.NormalizedRate) (domain.RateObservation, error) {
	f.saved++
	return domain.RateObservation{BankName: bank.Name, Code: rate.Code, Buy: rate.Buy, Sell: rate.Sell, CreatedAt: time.Now()}, nil
}

type fakeSource struct {
	bank  string
	rates []scrape.RawRate
}

func (f *fakeSource) Bank() scrape.BankInfo { return scrape.BankInfo{Name: f.bank} }

func (f *fakeSource) Fetch(context.Context) ([]scrape.RawRate, error) { return f.rates, nil }

// plainHasher avoids paying bcrypt cost in router tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Verify(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
