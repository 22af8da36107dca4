package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventEnvelope is the shared v1 wrapper around every payload on the bus.
type EventEnvelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	CausationID   string          `json:"causationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	Sequence      int64           `json:"sequence,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Schema        string          `json:"schema"`
	Payload       json.RawMessage `json:"payload"`
}

func (e EventEnvelope) Validate(name string, version int) error {
	switch {
	case e.EventName != name:
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	case e.EventVersion != version:
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	case e.PartitionKey == "":
		return fmt.Errorf("missing partitionKey")
	case e.EventID == "":
		return fmt.Errorf("missing eventId")
	}
	return nil
}

func parseEnvelope(body []byte) (EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return EventEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// orderPartition keys every event about one order to the same sequence.
func orderPartition(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}
