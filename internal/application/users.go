package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"tjrates-service/internal/cities"
	"tjrates-service/internal/domain"
)

// CreateWorkerInput is the admin form for adding a city worker.
type CreateWorkerInput struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8,max=128"`
	CityName string `validate:"required,max=64"`
	Phone    string `validate:"max=32"`
}

// UserService covers login and admin worker management.
type UserService struct {
	users      UserRepo
	activities ActivityRepo
	hasher     PasswordHasher
	tokens     TokenIssuer
	cities     *cities.List
	validate   *validator.Validate
}

func NewUserService(users UserRepo, activities ActivityRepo, hasher PasswordHasher, tokens TokenIssuer, cityList *cities.List) *UserService {
	return &UserService{
		users:      users,
		activities: activities,
		hasher:     hasher,
		tokens:     tokens,
		cities:     cityList,
		validate:   validator.New(),
	}
}

// Login verifies credentials and mints a token. Unknown usernames and wrong
// passwords come back as the same ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", domain.User{}, ErrUnauthorized
		}
		return "", domain.User{}, err
	}
	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		return "", domain.User{}, ErrUnauthorized
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// CreateWorker adds a new active city worker. Admin only.
func (s *UserService) CreateWorker(ctx context.Context, actor domain.User, in CreateWorkerInput) (domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return domain.User{}, ErrUnauthorized
	}
	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	city := strings.TrimSpace(in.CityName)
	if !s.cities.Has(city) {
		return domain.User{}, fmt.Errorf("%w: unknown city %q", ErrValidation, city)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Role:         domain.RoleCityWorker,
		CityName:     city,
		WorkerActive: true,
		Phone:        strings.TrimSpace(in.Phone),
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

// ToggleWorker flips a worker's active flag and returns the new state.
func (s *UserService) ToggleWorker(ctx context.Context, actor domain.User, id int64) (bool, error) {
	if actor.Role != domain.RoleAdmin {
		return false, ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if u.Role != domain.RoleCityWorker {
		return false, fmt.Errorf("%w: user %d is not a worker", ErrValidation, id)
	}
	next := !u.WorkerActive
	if err := s.users.SetWorkerActive(ctx, id, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *UserService) ListWorkers(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrUnauthorized
	}
	return s.users.ListWorkers(ctx)
}

func (s *UserService) ListActivities(ctx context.Context, actor domain.User, limit int) ([]domain.WorkerActivity, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrUnauthorized
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.activities.List(ctx, limit)
}
