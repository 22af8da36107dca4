package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id int64) (Category, error)
	GetByName(ctx context.Context, name string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c Category) error
	Delete(ctx context.Context, id int64) error
	GetOrCreate(ctx context.Context, name string) (Category, error)
}

type PostgresCategoryRepository struct {
	exec db.Executor
}

func NewPostgresCategoryRepository(exec db.Executor) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{exec: exec}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c *Category) error {
	err := r.exec.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("insert category: %w", apperror.ErrAlreadyExists)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (Category, error) {
	return r.getOne(ctx, `SELECT id, name FROM categories WHERE id = $1`, id)
}

func (r *PostgresCategoryRepository) GetByName(ctx context.Context, name string) (Category, error) {
	return r.getOne(ctx, `SELECT id, name FROM categories WHERE name = $1`, name)
}

func (r *PostgresCategoryRepository) getOne(ctx context.Context, query string, arg any) (Category, error) {
	var c Category
	if err := r.exec.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, fmt.Errorf("category %v: %w", arg, apperror.ErrNotFound)
		}
		return Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.exec.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, c Category) error {
	tag, err := r.exec.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("update category: %w", apperror.ErrAlreadyExists)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", c.ID, apperror.ErrNotFound)
	}
	return nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete category %d: %w", id, apperror.ErrInvalidState)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}

// GetOrCreate returns the category with the given name, inserting it first if needed.
func (r *PostgresCategoryRepository) GetOrCreate(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.exec.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return Category{}, fmt.Errorf("get or create category: %w", err)
	}
	return c, nil
}
