package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, login, full_name, role, created_at, updated_at
		FROM users WHERE id = $1
	`, id)

	var u User
	if err := row.Scan(&u.ID, &u.Login, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByLogin(ctx context.Context, login string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, login, full_name, role, created_at, updated_at
		FROM users WHERE login = $1
	`, login)

	var u User
	if err := row.Scan(&u.ID, &u.Login, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Upsert по логину. Если пользователь уже admin — не понижаем роль.
func (r *Repo) Upsert(ctx context.Context, id, login, fullName string, role Role) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, login, full_name, role)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (login)
		DO UPDATE SET
			full_name  = EXCLUDED.full_name,
			role       = CASE WHEN users.role = 'admin' THEN users.role ELSE EXCLUDED.role END,
			updated_at = now()
		RETURNING id, login, full_name, role, created_at, updated_at
	`, id, login, fullName, role)

	var u User
	if err := row.Scan(&u.ID, &u.Login, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
