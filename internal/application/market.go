package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"tjrates-service/internal/cities"
	"tjrates-service/internal/domain"
)

// SubmitInput is a worker's market rate submission. Buy and Sell arrive as
// strings so the same locale-tolerant parsing applies as for scraped rates.
type SubmitInput struct {
	Code     string `validate:"required,min=3,max=4"`
	CityName string `validate:"max=64"`
	Buy      string `validate:"required"`
	Sell     string `validate:"required"`
	Notes    string `validate:"max=256"`
}

// MarketService handles manually submitted city rates and their audit trail.
type MarketService struct {
	rates      MarketRateRepo
	activities ActivityRepo
	uow        UnitOfWork
	cities     *cities.List
	validate   *validator.Validate
	clock      Clock
}

type MarketOption func(*MarketService)

func WithMarketClock(c Clock) MarketOption { return func(s *MarketService) { s.clock = c } }

func NewMarketService(rates MarketRateRepo, activities ActivityRepo, uow UnitOfWork, cityList *cities.List, opts ...MarketOption) *MarketService {
	s := &MarketService{
		rates:      rates,
		activities: activities,
		uow:        uow,
		cities:     cityList,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	return s
}

// Submit validates and stores one market rate together with its audit row.
// A worker always writes under their own assigned city; the input city is
// only honored for admins. Nothing is stored when any step fails.
func (s *MarketService) Submit(ctx context.Context, actor domain.User, in SubmitInput) (domain.MarketRate, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.MarketRate{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if !domain.TrackedCurrencies[code] {
		return domain.MarketRate{}, fmt.Errorf("%w: currency %s not tracked", ErrValidation, code)
	}

	city := strings.TrimSpace(in.CityName)
	if actor.Role == domain.RoleCityWorker {
		city = actor.CityName
	}
	if !s.cities.Has(city) {
		return domain.MarketRate{}, fmt.Errorf("%w: unknown city %q", ErrValidation, city)
	}
	if !actor.CanEditCityRates(city) {
		return domain.MarketRate{}, fmt.Errorf("%w: cannot edit rates for %s", ErrUnauthorized, city)
	}

	buy, err := domain.ParseRate(in.Buy)
	if err != nil {
		return domain.MarketRate{}, fmt.Errorf("%w: buy: %v", ErrValidation, err)
	}
	sell, err := domain.ParseRate(in.Sell)
	if err != nil {
		return domain.MarketRate{}, fmt.Errorf("%w: sell: %v", ErrValidation, err)
	}
	if err := domain.ValidateSpread(buy, sell); err != nil {
		return domain.MarketRate{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rate := domain.MarketRate{
		Code:      code,
		CityName:  city,
		Buy:       buy,
		Sell:      sell,
		AddedBy:   actor.ID,
		Notes:     strings.TrimSpace(in.Notes),
		IsActive:  true,
		CreatedAt: s.clock.Now(),
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		id, err := s.rates.Append(ctx, rate)
		if err != nil {
			return err
		}
		rate.ID = id
		return s.activities.Append(ctx, domain.WorkerActivity{
			WorkerID:    actor.ID,
			Action:      domain.ActionAddRate,
			Description: fmt.Sprintf("%s %s buy=%s sell=%s", city, code, buy, sell),
			RateID:      &rate.ID,
			CreatedAt:   rate.CreatedAt,
		})
	})
	if err != nil {
		return domain.MarketRate{}, err
	}
	return rate, nil
}

// ListPublic returns all active market rates, for unauthenticated readers.
func (s *MarketService) ListPublic(ctx context.Context) ([]domain.MarketRate, error) {
	return s.rates.ListActive(ctx)
}

// ListForActor scopes the listing by role: admins see everything, workers
// their own city, everyone else nothing.
func (s *MarketService) ListForActor(ctx context.Context, actor domain.User) ([]domain.MarketRate, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.rates.ListActive(ctx)
	case domain.RoleCityWorker:
		return s.rates.ListActiveByCity(ctx, actor.CityName)
	default:
		return nil, ErrUnauthorized
	}
}

// Deactivate soft-deletes a rate. Admins may remove any rate; a worker only
// rates of their own city. The removal is audited in the same transaction.
func (s *MarketService) Deactivate(ctx context.Context, actor domain.User, id int64) error {
	rate, err := s.rates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanEditCityRates(rate.CityName) {
		return fmt.Errorf("%w: cannot edit rates for %s", ErrUnauthorized, rate.CityName)
	}
	return s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.rates.Deactivate(ctx, id); err != nil {
			return err
		}
		return s.activities.Append(ctx, domain.WorkerActivity{
			WorkerID:    actor.ID,
			Action:      domain.ActionDeleteRate,
			Description: fmt.Sprintf("%s %s rate %d", rate.CityName, rate.Code, id),
			RateID:      &id,
			CreatedAt:   s.clock.Now(),
		})
	})
}
