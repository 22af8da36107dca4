package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
)

const (
	cartNotFound = "Cart not found"
	itemNotFound = "Item not found"
)

// maxQuantity is the largest line quantity the INTEGER column holds.
const maxQuantity = math.MaxInt32

func quantityTooLarge() error {
	return apperror.InvalidInput(fmt.Sprintf("quantity cannot exceed %d", maxQuantity))
}

// ProductLookup resolves the current catalog entry for a product.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int64) (catalog.Product, error)
}

type Service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

func mapCartErr(err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.NotFound(cartNotFound)
	}
	return err
}

func (s *Service) GetCart(ctx context.Context, cartID int64) (Cart, error) {
	c, err := s.repo.GetWithItems(ctx, cartID)
	return c, mapCartErr(err)
}

func (s *Service) GetCartByUserID(ctx context.Context, userID int64) (Cart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	return c, mapCartErr(err)
}

// InitializeNewCart returns the user's cart, creating an empty one on first use.
func (s *Service) InitializeNewCart(ctx context.Context, userID int64) (Cart, error) {
	c, err := s.repo.GetOrCreateForUser(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return Cart{}, apperror.NotFound("User not found!")
	}
	return c, err
}

func (s *Service) GetTotalPrice(ctx context.Context, cartID int64) (decimal.Decimal, error) {
	c, err := s.GetCart(ctx, cartID)
	if err != nil {
		return decimal.Zero, err
	}
	return c.TotalAmount, nil
}

func (s *Service) ClearCart(ctx context.Context, cartID int64) error {
	return s.repo.WithinTx(ctx, func(repo Repository) error {
		if _, err := repo.GetForUpdate(ctx, cartID); err != nil {
			return mapCartErr(err)
		}
		return repo.Clear(ctx, cartID)
	})
}

func (s *Service) AddItemToCart(ctx context.Context, cartID, productID int64, qty int) (Cart, error) {
	if qty <= 0 {
		return Cart{}, apperror.InvalidInput("quantity must be positive")
	}
	if qty > maxQuantity {
		return Cart{}, quantityTooLarge()
	}

	var out Cart
	err := s.repo.WithinTx(ctx, func(repo Repository) error {
		c, err := repo.GetForUpdate(ctx, cartID)
		if err != nil {
			return mapCartErr(err)
		}
		if existing, ok := c.Item(productID); ok && existing.Quantity > maxQuantity-qty {
			return quantityTooLarge()
		}
		p, err := s.products.GetProductByID(ctx, productID)
		if err != nil {
			return err
		}

		it := c.AddItem(p, qty)
		if err := repo.SaveItem(ctx, c.ID, it); err != nil {
			return err
		}
		if err := repo.UpdateTotal(ctx, c.ID, c.TotalAmount); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Service) RemoveItemFromCart(ctx context.Context, cartID, productID int64) error {
	return s.repo.WithinTx(ctx, func(repo Repository) error {
		c, err := repo.GetForUpdate(ctx, cartID)
		if err != nil {
			return mapCartErr(err)
		}
		if !c.RemoveItem(productID) {
			return apperror.NotFound(itemNotFound)
		}
		if err := repo.DeleteItem(ctx, c.ID, productID); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, c.ID, c.TotalAmount)
	})
}

// UpdateItemQuantity sets the quantity of an existing line and refreshes its
// unit price. A product that is not in the cart is left alone without error.
func (s *Service) UpdateItemQuantity(ctx context.Context, cartID, productID int64, qty int) error {
	if qty <= 0 {
		return apperror.InvalidInput("quantity must be positive")
	}
	if qty > maxQuantity {
		return quantityTooLarge()
	}

	return s.repo.WithinTx(ctx, func(repo Repository) error {
		c, err := repo.GetForUpdate(ctx, cartID)
		if err != nil {
			return mapCartErr(err)
		}
		if _, ok := c.Item(productID); !ok {
			return nil
		}
		p, err := s.products.GetProductByID(ctx, productID)
		if err != nil {
			return err
		}

		it, _ := c.SetQuantity(p, qty)
		if err := repo.SaveItem(ctx, c.ID, it); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, c.ID, c.TotalAmount)
	})
}

func (s *Service) GetCartItem(ctx context.Context, cartID, productID int64) (Item, error) {
	c, err := s.GetCart(ctx, cartID)
	if err != nil {
		return Item{}, err
	}
	it, ok := c.Item(productID)
	if !ok {
		return Item{}, apperror.NotFound(itemNotFound)
	}
	return it, nil
}
