package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (Order, error)
	GetForUpdate(ctx context.Context, id int64) (Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

type PostgresRepository struct {
	exec db.Executor
}

func NewPostgresRepository(exec db.Executor) *PostgresRepository {
	return &PostgresRepository{exec: exec}
}

// Create inserts the order and its items. Callers provide the transaction.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	err := r.exec.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_date, total_amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, o.UserID, o.OrderDate, o.TotalAmount, string(o.Status)).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		err := r.exec.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_brand, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, o.ID, it.ProductID, it.ProductName, it.ProductBrand, it.Quantity, it.Price).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (Order, error) {
	return r.getOne(ctx, `SELECT id, user_id, order_date, total_amount, status FROM orders WHERE id = $1`, id)
}

// GetForUpdate loads the order and locks its row until the transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (Order, error) {
	return r.getOne(ctx, `SELECT id, user_id, order_date, total_amount, status FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id int64) (Order, error) {
	var (
		o      Order
		status string
	)
	if err := r.exec.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("order %d: %w", id, apperror.ErrNotFound)
		}
		return Order{}, fmt.Errorf("select order: %w", err)
	}
	o.Status = Status(status)

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []Item{}
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT id, user_id, order_date, total_amount, status
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	ids := []int64{}
	for rows.Next() {
		var (
			o      Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &status); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = Status(status)
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []Item{}
		}
	}
	return orders, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]Item, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_brand, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]Item)
	for rows.Next() {
		var (
			it        Item
			orderID   int64
			productID *int64
		)
		if err := rows.Scan(&it.ID, &orderID, &productID, &it.ProductName, &it.ProductBrand, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if productID != nil {
			it.ProductID = *productID
		}
		out[orderID] = append(out[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.exec.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}
