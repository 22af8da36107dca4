package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/dedup"
	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/order"
)

const DeliveryConsumerName = "shop-shipment-delivered"

// ShipmentDeliveredHandler marks orders DELIVERED. The status change and the
// dedup checkpoint commit together, so a redelivered event is skipped.
func ShipmentDeliveredHandler(exec db.Executor, checkpoints *dedup.Repository, logger *log.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		env, err := parseEnvelope(body)
		if err != nil {
			return err
		}
		if err := env.Validate(EventShipmentDelivered, 1); err != nil {
			return err
		}

		var payload ShipmentDeliveredPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", EventShipmentDelivered, err)
		}
		if payload.OrderID <= 0 {
			return fmt.Errorf("missing orderId")
		}

		return db.InTx(ctx, exec, func(tx pgx.Tx) error {
			local := checkpoints.WithExecutor(tx)

			if env.Sequence != 0 {
				last, ok, err := local.LastSequence(ctx, DeliveryConsumerName, env.PartitionKey)
				if err != nil {
					return err
				}
				if ok && env.Sequence <= last {
					logger.Printf("skip duplicate delivery order=%d partition=%s seq=%d last=%d", payload.OrderID, env.PartitionKey, env.Sequence, last)
					return nil
				}
				if ok && env.Sequence > last+1 {
					logger.Printf("warning: sequence gap for partition=%s seq=%d last=%d", env.PartitionKey, env.Sequence, last)
				}
			}

			changed, err := order.ApplyDelivery(ctx, order.NewPostgresRepository(tx), payload.OrderID)
			switch {
			case errors.Is(err, apperror.ErrNotFound):
				logger.Printf("delivery for unknown order %d ignored", payload.OrderID)
			case err != nil:
				return fmt.Errorf("mark order %d delivered: %w", payload.OrderID, err)
			case changed:
				logger.Printf("order %d delivered", payload.OrderID)
			default:
				logger.Printf("order %d already terminal, delivery ignored", payload.OrderID)
			}

			if env.Sequence != 0 {
				return local.Advance(ctx, DeliveryConsumerName, env.PartitionKey, env.Sequence)
			}
			return nil
		})
	}
}
