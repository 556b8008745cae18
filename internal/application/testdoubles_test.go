package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
)

var ErrRepo = errors.New("repo error")

type savedObservation struct {
	Bank string
	Rate domain.NormalizedRate
}

type fakeSink struct {
	mu    sync.Mutex
	saved []savedObservation
	err   error
}

func (f *fakeSink) SaveObservation(_ context.Context, bank scrape.BankInfo, rate domain.NormalizedRate) (domain.RateObservation, error) {
	if f.err != nil {
		return domain.RateObservation{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, savedObservation{Bank: bank.Name, Rate: rate})
	return domain.RateObservation{BankName: bank.Name, Code: rate.Code, Buy: rate.Buy, Sell: rate.Sell}, nil
}

type fakeSource struct {
	bank  string
	rates []scrape.RawRate
	err   error
	boom  bool
}

func (f *fakeSource) Bank() scrape.BankInfo {
	return scrape.BankInfo{Name: f.bank, ShortName: f.bank}
}

func (f *fakeSource) Fetch(context.Context) ([]scrape.RawRate, error) {
	if f.boom {
		panic("source exploded")
	}
	return f.rates, f.err
}

type fakeLock struct {
	held     bool
	unlocked bool
}

func (f *fakeLock) TryLock(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Unlock(context.Context) error {
	f.held = false
	f.unlocked = true
	return nil
}

type fakeObserver struct {
	ok     map[string]int
	failed map[string]scrape.Kind
}

func (f *fakeObserver) SourceSucceeded(bank string, saved int) {
	if f.ok == nil {
		f.ok = map[string]int{}
	}
	f.ok[bank] = saved
}

func (f *fakeObserver) SourceFailed(bank string, kind scrape.Kind) {
	if f.failed == nil {
		f.failed = map[string]scrape.Kind{}
	}
	f.failed[bank] = kind
}

type fixedClock struct{ at time.Time }

func (f fixedClock) Now() time.Time { return f.at }

type fakeMarketRepo struct {
	rates  map[int64]domain.MarketRate
	nextID int64
	err    error
}

func (f *fakeMarketRepo) Append(_ context.Context, r domain.MarketRate) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
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
		return domain.MarketRate{}, ErrNotFound
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
		return ErrNotFound
	}
	r.IsActive = false
	f.rates[id] = r
	return nil
}

type fakeActivityRepo struct {
	rows []domain.WorkerActivity
	err  error
}

func (f *fakeActivityRepo) Append(_ context.Context, a domain.WorkerActivity) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeActivityRepo) List(_ context.Context, limit int) ([]domain.WorkerActivity, error) {
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

// trackingUoW counts transactions and records whether the callback failed, so
// tests can assert nothing is half-committed.
type trackingUoW struct {
	calls  int
	failed int
}

func (u *trackingUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	if err := fn(ctx); err != nil {
		u.failed++
		return err
	}
	return nil
}

type fakeUserRepo struct {
	users  map[int64]domain.User
	nextID int64
	err    error
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u domain.User) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
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
		return ErrNotFound
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

// plainHasher is a reversible stand-in for bcrypt in unit tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Verify(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct{ err error }

func (f fakeTokens) Issue(u domain.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("token-%d-%s", u.ID, u.Role), nil
}
