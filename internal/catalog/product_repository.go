package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (Product, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Product, error)
	CountByBrandAndName(ctx context.Context, brand, name string) (int64, error)
	ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error)
	LockForUpdate(ctx context.Context, ids []int64) (map[int64]Product, error)
	AdjustInventory(ctx context.Context, id int64, delta int) error
}

type PostgresProductRepository struct {
	exec db.Executor
}

func NewPostgresProductRepository(exec db.Executor) *PostgresProductRepository {
	return &PostgresProductRepository{exec: exec}
}

const productColumns = `p.id, p.name, p.brand, p.price, p.inventory, p.description, c.id, c.name`

func (r *PostgresProductRepository) Create(ctx context.Context, p *Product) error {
	err := r.exec.QueryRow(ctx, `
		INSERT INTO products (name, brand, price, inventory, description, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Name, p.Brand, p.Price, p.Inventory, p.Description, p.Category.ID).Scan(&p.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("insert product: %w", apperror.ErrAlreadyExists)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.exec.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Inventory, &p.Description, &p.Category.ID, &p.Category.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}

	images, err := r.loadImages(ctx, []int64{p.ID})
	if err != nil {
		return Product{}, err
	}
	p.Images = images[p.ID]
	return p, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, p Product) error {
	tag, err := r.exec.Exec(ctx, `
		UPDATE products
		SET name = $2, brand = $3, price = $4, inventory = $5, description = $6, category_id = $7, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Brand, p.Price, p.Inventory, p.Description, p.Category.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("update product: %w", apperror.ErrAlreadyExists)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", p.ID, apperror.ErrNotFound)
	}
	return nil
}

// Delete removes the product along with its cart lines and recomputes the
// totals of the carts that held it, in one transaction.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	return db.InTx(ctx, r.exec, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `DELETE FROM cart_items WHERE product_id = $1 RETURNING cart_id`, id)
		if err != nil {
			return fmt.Errorf("delete cart lines: %w", err)
		}
		cartIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("collect cart ids: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
		}

		if len(cartIDs) == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			UPDATE carts
			SET total_amount = COALESCE((SELECT sum(ci.total_price) FROM cart_items ci WHERE ci.cart_id = carts.id), 0)
			WHERE id = ANY($1)
		`, cartIDs); err != nil {
			return fmt.Errorf("recompute cart totals: %w", err)
		}
		return nil
	})
}

func (r *PostgresProductRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	var (
		conds []string
		args  []any
	)
	if f.Brand != "" {
		args = append(args, f.Brand)
		conds = append(conds, fmt.Sprintf("p.brand = $%d", len(args)))
	}
	if f.Name != "" {
		args = append(args, f.Name)
		conds = append(conds, fmt.Sprintf("p.name = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("c.id = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products p JOIN categories c ON c.id = p.category_id`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY p.id`

	rows, err := r.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	ids := []int64{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Inventory, &p.Description, &p.Category.ID, &p.Category.Name); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	if len(ids) == 0 {
		return products, nil
	}

	images, err := r.loadImages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Images = images[products[i].ID]
	}
	return products, nil
}

func (r *PostgresProductRepository) CountByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	var n int64
	if err := r.exec.QueryRow(ctx, `
		SELECT count(*) FROM products WHERE brand = $1 AND name = $2
	`, brand, name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *PostgresProductRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error) {
	var exists bool
	if err := r.exec.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM products WHERE name = $1 AND brand = $2)
	`, name, brand).Scan(&exists); err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}

// LockForUpdate row-locks the given products in id order and returns them by id.
// Missing ids are absent from the map. Must run inside a transaction.
func (r *PostgresProductRepository) LockForUpdate(ctx context.Context, ids []int64) (map[int64]Product, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT id, name, brand, price, inventory
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Inventory); err != nil {
			return nil, fmt.Errorf("scan locked product: %w", err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked products: %w", err)
	}
	return out, nil
}

// AdjustInventory adds delta to the product's inventory. It affects no row, and
// reports ErrNotFound, when the product is gone or the result would be negative.
func (r *PostgresProductRepository) AdjustInventory(ctx context.Context, id int64, delta int) error {
	tag, err := r.exec.Exec(ctx, `
		UPDATE products
		SET inventory = inventory + $2, updated_at = now()
		WHERE id = $1 AND inventory + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adjust inventory for product %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}

func (r *PostgresProductRepository) loadImages(ctx context.Context, productIDs []int64) (map[int64][]ImageRef, error) {
	rows, err := r.exec.Query(ctx, `
		SELECT id, product_id, file_name, download_url
		FROM images
		WHERE product_id = ANY($1)
		ORDER BY id
	`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]ImageRef)
	for rows.Next() {
		var (
			img       ImageRef
			productID int64
		)
		if err := rows.Scan(&img.ID, &productID, &img.FileName, &img.DownloadURL); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		out[productID] = append(out[productID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return out, nil
}
