package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange              = "ecommerce.events"
	OrderPlacedRoutingKey       = "order.placed.v1"
	OrderCancelledRoutingKey    = "order.cancelled.v1"
	ShipmentDeliveredRoutingKey = "shipment.delivered.v1"
	ServiceName                 = "shop-service-go"
)

func queueName(routingKey string) string {
	return ServiceName + "." + routingKey
}

// Dial connects to RabbitMQ.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

type correlationKey struct{}

// WithCorrelationID attaches the request's correlation id so events emitted
// while serving it carry the same id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
