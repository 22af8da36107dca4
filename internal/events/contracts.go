package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
)

const (
	EventOrderPlaced       = "OrderPlaced"
	EventOrderCancelled    = "OrderCancelled"
	EventShipmentDelivered = "ShipmentDelivered"

	orderPlacedSchema    = "contracts/events/order/OrderPlaced.v1.payload.schema.json"
	orderCancelledSchema = "contracts/events/order/OrderCancelled.v1.payload.schema.json"
)

type OrderLine struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductBrand string          `json:"productBrand"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type OrderPlacedPayload struct {
	OrderID     int64           `json:"orderId"`
	UserID      int64           `json:"userId"`
	Items       []OrderLine     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderDate   time.Time       `json:"orderDate"`
}

type OrderCancelledPayload struct {
	OrderID     int64       `json:"orderId"`
	UserID      int64       `json:"userId"`
	Items       []OrderLine `json:"items"`
	CancelledAt time.Time   `json:"cancelledAt"`
}

type ShipmentDeliveredPayload struct {
	OrderID     int64     `json:"orderId"`
	ShipmentID  string    `json:"shipmentId,omitempty"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

func orderLines(items []order.Item) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderLine{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductBrand: it.ProductBrand,
			Quantity:     it.Quantity,
			Price:        it.Price,
		})
	}
	return lines
}
