package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
)

const publishTimeout = 3 * time.Second

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Sequencer interface {
	Next(ctx context.Context, partitionKey string) (int64, error)
}

type PublisherOptions struct {
	Producer string
}

// Publisher emits order lifecycle events. It satisfies order.Publisher.
type Publisher struct {
	ch       channel
	seq      Sequencer
	producer string
	now      func() time.Time
}

func NewPublisher(conn *amqp.Connection, seq Sequencer, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return newPublisher(ch, seq, opts), nil
}

func newPublisher(ch channel, seq Sequencer, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = ServiceName
	}
	return &Publisher{ch: ch, seq: seq, producer: producer, now: time.Now}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o order.Order) error {
	payload := OrderPlacedPayload{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Items:       orderLines(o.Items),
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
	}
	return p.publish(ctx, OrderPlacedRoutingKey, EventOrderPlaced, orderPlacedSchema, o.ID, payload)
}

func (p *Publisher) PublishOrderCancelled(ctx context.Context, o order.Order) error {
	payload := OrderCancelledPayload{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Items:       orderLines(o.Items),
		CancelledAt: p.now().UTC(),
	}
	return p.publish(ctx, OrderCancelledRoutingKey, EventOrderCancelled, orderCancelledSchema, o.ID, payload)
}

func (p *Publisher) publish(ctx context.Context, routingKey, name, schema string, orderID int64, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", name, err)
	}

	partition := orderPartition(orderID)
	seq, err := p.seq.Next(ctx, partition)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	correlationID := CorrelationID(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	env := EventEnvelope{
		EventName:     name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      p.producer,
		PartitionKey:  partition,
		Sequence:      seq,
		OccurredAt:    p.now().UTC(),
		Schema:        schema,
		Payload:       raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", name, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(pubCtx, EventsExchange, routingKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     env.EventID,
		CorrelationId: correlationID,
		Timestamp:     env.OccurredAt,
		Type:          name,
		Body:          body,
	})
}
