package cart

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/catalog"
)

type Item struct {
	ID           int64           `json:"itemId"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductBrand string          `json:"productBrand"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

type Cart struct {
	ID          int64           `json:"cartId"`
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []Item          `json:"items"`
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

func (c *Cart) find(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Item returns the line for productID.
func (c *Cart) Item(productID int64) (Item, bool) {
	if i := c.find(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// AddItem merges qty of p into the cart and returns the affected line. An
// existing line keeps its unit price and grows by qty; a new line snapshots the
// current product price.
func (c *Cart) AddItem(p catalog.Product, qty int) *Item {
	i := c.find(p.ID)
	if i < 0 {
		c.Items = append(c.Items, Item{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductBrand: p.Brand,
			UnitPrice:    p.Price,
		})
		i = len(c.Items) - 1
	}
	it := &c.Items[i]
	it.Quantity += qty
	it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
	c.recomputeTotal()
	return it
}

// SetQuantity replaces the quantity of an existing line and refreshes its unit
// price. It reports false when the cart has no line for the product.
func (c *Cart) SetQuantity(p catalog.Product, qty int) (*Item, bool) {
	i := c.find(p.ID)
	if i < 0 {
		return nil, false
	}
	it := &c.Items[i]
	it.Quantity = qty
	it.UnitPrice = p.Price
	it.TotalPrice = p.Price.Mul(decimal.NewFromInt(int64(qty)))
	c.recomputeTotal()
	return it, true
}

func (c *Cart) RemoveItem(productID int64) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.recomputeTotal()
	return true
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.TotalAmount = decimal.Zero
}

func (c *Cart) recomputeTotal() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.TotalPrice)
	}
	c.TotalAmount = total
}
