package events

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one message body. A nil error acks the message; any
// error rejects it without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

type ConsumerConfig struct {
	RoutingKey string
	Tag        string
}

// StartConsumer binds a durable service queue to routingKey on the events
// exchange and dispatches deliveries to handler until ctx is cancelled.
func StartConsumer(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, handler HandlerFunc, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare events exchange: %w", err)
	}

	queue := queueName(cfg.RoutingKey)
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue declare %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, cfg.RoutingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue bind %s: %w", queue, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("qos: %w", err)
	}

	msgs, err := ch.Consume(queue, cfg.Tag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	go func() {
		defer ch.Close()
		consumeLoop(ctx, msgs, handler, logger, queue)
	}()
	return nil
}

func consumeLoop(ctx context.Context, msgs <-chan amqp.Delivery, handler HandlerFunc, logger *log.Logger, queue string) {
	for {
		select {
		case <-ctx.Done():
			logger.Printf("stopping %s consumer", queue)
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Printf("%s deliveries channel closed", queue)
				return
			}
			dispatch(ctx, msg, handler, logger)
		}
	}
}

func dispatch(ctx context.Context, msg amqp.Delivery, handler HandlerFunc, logger *log.Logger) {
	if err := handler(ctx, msg.Body); err != nil {
		logger.Printf("handle %s message %s: %v", msg.RoutingKey, msg.MessageId, err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			logger.Printf("nack: %v", nackErr)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		logger.Printf("ack: %v", err)
	}
}
