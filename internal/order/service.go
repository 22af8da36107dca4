package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

const (
	msgEmptyCart     = "Cart is empty."
	msgNotFound      = "Order not found"
	msgNoOrder       = "No order found"
	msgNotCancelable = "Order cannot be cancelled as it is already processed."
)

// Publisher announces committed order state changes.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o Order) error
	PublishOrderCancelled(ctx context.Context, o Order) error
}

// ProductInvalidator drops cached copies of products whose inventory changed.
type ProductInvalidator interface {
	InvalidateProducts(ctx context.Context, ids ...int64)
}

type Service struct {
	store     Store
	orders    Repository
	publisher Publisher
	products  ProductInvalidator
	logger    *log.Logger
	now       func() time.Time
}

// NewService wires the order workflow. publisher and products may be nil.
func NewService(store Store, orders Repository, publisher Publisher, products ProductInvalidator, logger *log.Logger) *Service {
	return &Service{
		store:     store,
		orders:    orders,
		publisher: publisher,
		products:  products,
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder converts the user's cart into a PENDING order. Inventory is
// decremented and the cart emptied in the same transaction; any failure leaves
// products, cart and orders untouched.
func (s *Service) PlaceOrder(ctx context.Context, userID int64) (Order, error) {
	var placed Order
	err := s.store.WithinTx(ctx, func(r Repos) error {
		c, err := r.Carts.GetByUserID(ctx, userID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidState(msgEmptyCart)
		}
		if err != nil {
			return err
		}
		if c.Empty() {
			return apperror.InvalidState(msgEmptyCart)
		}

		ids := make([]int64, 0, len(c.Items))
		for _, it := range c.Items {
			ids = append(ids, it.ProductID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		locked, err := r.Products.LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for _, it := range c.Items {
			p, ok := locked[it.ProductID]
			if !ok {
				return insufficientInventory(it.ProductName)
			}
			if p.Inventory < it.Quantity {
				return insufficientInventory(p.Name)
			}
		}

		o := Order{
			UserID:    userID,
			OrderDate: s.now().UTC(),
			Status:    StatusPending,
			Items:     make([]Item, 0, len(c.Items)),
		}
		for _, it := range c.Items {
			p := locked[it.ProductID]
			if err := r.Products.AdjustInventory(ctx, p.ID, -it.Quantity); err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					return insufficientInventory(p.Name)
				}
				return err
			}
			o.Items = append(o.Items, Item{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductBrand: p.Brand,
				Quantity:     it.Quantity,
				Price:        it.UnitPrice,
			})
		}
		o.TotalAmount = o.itemsTotal()

		if err := r.Orders.Create(ctx, &o); err != nil {
			return err
		}
		if err := r.Carts.Clear(ctx, c.ID); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.invalidate(ctx, placed)
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, placed); err != nil {
			s.logger.Printf("publish order placed for order %d failed: %v", placed.ID, err)
		}
	}
	return placed, nil
}

func insufficientInventory(name string) error {
	return apperror.InvalidState(fmt.Sprintf("Insufficient inventory for product: %s", name))
}

// CancelOrder cancels a PENDING order and returns its quantities to inventory.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) (Order, error) {
	var cancelled Order
	err := s.store.WithinTx(ctx, func(r Repos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound(msgNotFound)
		}
		if err != nil {
			return err
		}
		if o.Status != StatusPending {
			return apperror.InvalidState(msgNotCancelable)
		}

		for _, it := range o.Items {
			if it.ProductID == 0 {
				continue
			}
			err := r.Products.AdjustInventory(ctx, it.ProductID, it.Quantity)
			if errors.Is(err, apperror.ErrNotFound) {
				s.logger.Printf("cancel order %d: product %d no longer exists, skipping restock", o.ID, it.ProductID)
				continue
			}
			if err != nil {
				return err
			}
		}

		if err := r.Orders.UpdateStatus(ctx, o.ID, StatusCancelled); err != nil {
			return err
		}
		o.Status = StatusCancelled
		cancelled = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.invalidate(ctx, cancelled)
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCancelled(ctx, cancelled); err != nil {
			s.logger.Printf("publish order cancelled for order %d failed: %v", cancelled.ID, err)
		}
	}
	return cancelled, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, apperror.ErrNotFound) {
		return Order{}, apperror.NotFound(msgNoOrder)
	}
	return o, err
}

// GetUserOrders lists the user's orders, newest first. No orders is an empty list.
func (s *Service) GetUserOrders(ctx context.Context, userID int64) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// MarkDelivered records a delivery reported by the shipping side.
func (s *Service) MarkDelivered(ctx context.Context, orderID int64) (bool, error) {
	var changed bool
	err := s.store.WithinTx(ctx, func(r Repos) error {
		var err error
		changed, err = ApplyDelivery(ctx, r.Orders, orderID)
		return err
	})
	return changed, err
}

// ApplyDelivery moves a non-terminal order to DELIVERED using a repository
// bound to the caller's transaction. It reports false when the order was
// already DELIVERED or CANCELLED.
func ApplyDelivery(ctx context.Context, orders Repository, orderID int64) (bool, error) {
	o, err := orders.GetForUpdate(ctx, orderID)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, apperror.NotFound(msgNotFound)
	}
	if err != nil {
		return false, err
	}
	if o.Status.Terminal() {
		return false, nil
	}
	if err := orders.UpdateStatus(ctx, orderID, StatusDelivered); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) invalidate(ctx context.Context, o Order) {
	if s.products == nil {
		return
	}
	if ids := o.productIDs(); len(ids) > 0 {
		s.products.InvalidateProducts(ctx, ids...)
	}
}
