package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tjrates-service/internal/application"
	"tjrates-service/internal/domain"
)

type UserRepo struct{ db *DB }

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

var _ application.UserRepo = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, role, city_name, worker_active, phone, created_at`

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *UserRepo) get(ctx context.Context, sql string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.q(ctx).QueryRow(ctx, sql, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CityName, &u.WorkerActive, &u.Phone, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, application.ErrNotFound
	}
	return u, err
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (int64, error) {
	var id int64
	err := r.db.q(ctx).QueryRow(ctx, `
        INSERT INTO users(username, password_hash, role, city_name, worker_active, phone)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		u.Username, u.PasswordHash, u.Role, u.CityName, u.WorkerActive, u.Phone,
	).Scan(&id)
	return id, err
}

func (r *UserRepo) SetWorkerActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.q(ctx).Exec(ctx, `UPDATE users SET worker_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *UserRepo) ListWorkers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.q(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY username`, domain.RoleCityWorker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CityName, &u.WorkerActive, &u.Phone, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
