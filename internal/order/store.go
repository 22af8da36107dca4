package order

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
)

// Repos groups the repositories an order workflow touches, all bound to one transaction.
type Repos struct {
	Orders   Repository
	Carts    cart.Repository
	Products catalog.ProductRepository
}

// Store runs fn in a transaction. fn's error rolls back every write made through Repos.
type Store interface {
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

type PostgresStore struct {
	exec db.Executor
}

func NewPostgresStore(exec db.Executor) *PostgresStore {
	return &PostgresStore{exec: exec}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Repos) error) error {
	return db.InTx(ctx, s.exec, func(tx pgx.Tx) error {
		return fn(Repos{
			Orders:   NewPostgresRepository(tx),
			Carts:    cart.NewPostgresRepository(tx),
			Products: catalog.NewPostgresProductRepository(tx),
		})
	})
}
