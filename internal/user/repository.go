package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateNames(ctx context.Context, id int64, firstName, lastName string) (User, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	exec db.Executor
}

func NewPostgresRepository(exec db.Executor) *PostgresRepository {
	return &PostgresRepository{exec: exec}
}

func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	err := r.exec.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.FirstName, u.LastName, u.Email, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", apperror.ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (User, error) {
	return r.scanOne(r.exec.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash FROM users WHERE id = $1
	`, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.exec.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash FROM users WHERE email = $1
	`, email))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperror.ErrNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UpdateNames(ctx context.Context, id int64, firstName, lastName string) (User, error) {
	return r.scanOne(r.exec.QueryRow(ctx, `
		UPDATE users SET first_name = $2, last_name = $3
		WHERE id = $1
		RETURNING id, first_name, last_name, email, password_hash
	`, id, firstName, lastName))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
