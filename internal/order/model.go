package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a snapshot of the product at order time. ProductID is zero once the
// product has been removed from the catalog.
type Item struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductBrand string          `json:"productBrand"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	Items       []Item          `json:"items"`
}

func (o Order) itemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (o Order) productIDs() []int64 {
	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID != 0 {
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}
