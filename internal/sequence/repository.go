package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository hands out per-partition, gap-free event sequence numbers.
type Repository struct {
	q Querier
}

func NewRepository(q Querier) *Repository {
	return &Repository{q: q}
}

// Next increments the counter for partitionKey and returns the new value. The
// first call for a partition returns 1.
func (r *Repository) Next(ctx context.Context, partitionKey string) (int64, error) {
	var seq int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO event_sequence (partition_key, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = event_sequence.last_sequence + 1, updated_at = now()
		RETURNING last_sequence
	`, partitionKey).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence for %s: %w", partitionKey, err)
	}
	return seq, nil
}
