package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

type Repository interface {
	GetWithItems(ctx context.Context, cartID int64) (Cart, error)
	GetForUpdate(ctx context.Context, cartID int64) (Cart, error)
	GetByUserID(ctx context.Context, userID int64) (Cart, error)
	GetOrCreateForUser(ctx context.Context, userID int64) (Cart, error)
	SaveItem(ctx context.Context, cartID int64, it *Item) error
	DeleteItem(ctx context.Context, cartID, productID int64) error
	UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error
	Clear(ctx context.Context, cartID int64) error
	WithinTx(ctx context.Context, fn func(Repository) error) error
}

type PostgresRepository struct {
	exec db.Executor
}

func NewPostgresRepository(exec db.Executor) *PostgresRepository {
	return &PostgresRepository{exec: exec}
}

// WithinTx runs fn with a repository bound to a new transaction (a savepoint
// when r is already transactional).
func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(Repository) error) error {
	return db.InTx(ctx, r.exec, func(tx pgx.Tx) error {
		return fn(NewPostgresRepository(tx))
	})
}

func (r *PostgresRepository) GetWithItems(ctx context.Context, cartID int64) (Cart, error) {
	return r.load(ctx, `SELECT id, user_id, total_amount FROM carts WHERE id = $1`, cartID)
}

// GetForUpdate loads the cart and locks its row until the transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, cartID int64) (Cart, error) {
	return r.load(ctx, `SELECT id, user_id, total_amount FROM carts WHERE id = $1 FOR UPDATE`, cartID)
}

// GetByUserID loads the user's cart, row-locked when called inside a transaction.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) (Cart, error) {
	return r.load(ctx, `SELECT id, user_id, total_amount FROM carts WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *PostgresRepository) GetOrCreateForUser(ctx context.Context, userID int64) (Cart, error) {
	var cartID int64
	err := r.exec.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`, userID).Scan(&cartID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Cart{}, fmt.Errorf("user %d: %w", userID, apperror.ErrNotFound)
		}
		return Cart{}, fmt.Errorf("upsert cart: %w", err)
	}
	return r.GetWithItems(ctx, cartID)
}

func (r *PostgresRepository) load(ctx context.Context, query string, arg int64) (Cart, error) {
	var c Cart
	if err := r.exec.QueryRow(ctx, query, arg).Scan(&c.ID, &c.UserID, &c.TotalAmount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, fmt.Errorf("cart %d: %w", arg, apperror.ErrNotFound)
		}
		return Cart{}, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.exec.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.brand, ci.quantity, ci.unit_price, ci.total_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`, c.ID)
	if err != nil {
		return Cart{}, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	c.Items = []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductBrand, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Cart{}, fmt.Errorf("iterate cart items: %w", err)
	}
	return c, nil
}

// SaveItem inserts the line or overwrites the existing line for the same product.
func (r *PostgresRepository) SaveItem(ctx context.Context, cartID int64, it *Item) error {
	err := r.exec.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price, total_price = EXCLUDED.total_price
		RETURNING id
	`, cartID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("save cart item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, cartID, productID int64) error {
	tag, err := r.exec.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart %d product %d: %w", cartID, productID, apperror.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) UpdateTotal(ctx context.Context, cartID int64, total decimal.Decimal) error {
	if _, err := r.exec.Exec(ctx, `UPDATE carts SET total_amount = $2 WHERE id = $1`, cartID, total); err != nil {
		return fmt.Errorf("update cart total: %w", err)
	}
	return nil
}

// Clear removes every item and zeroes the total.
func (r *PostgresRepository) Clear(ctx context.Context, cartID int64) error {
	if _, err := r.exec.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return r.UpdateTotal(ctx, cartID, decimal.Zero)
}
