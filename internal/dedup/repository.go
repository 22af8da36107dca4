package dedup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Executor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository stores the highest sequence a consumer has applied per partition.
type Repository struct {
	exec Executor
}

func NewRepository(exec Executor) *Repository {
	return &Repository{exec: exec}
}

// WithExecutor binds the repository to exec, typically a transaction.
func (r *Repository) WithExecutor(exec Executor) *Repository {
	return &Repository{exec: exec}
}

// LastSequence returns the checkpoint; ok is false when none exists yet.
func (r *Repository) LastSequence(ctx context.Context, consumer, partitionKey string) (last int64, ok bool, err error) {
	err = r.exec.QueryRow(ctx, `
		SELECT last_sequence
		FROM event_dedup_checkpoint
		WHERE consumer_name = $1 AND partition_key = $2
	`, consumer, partitionKey).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select checkpoint: %w", err)
	}
	return last, true, nil
}

// Advance moves the checkpoint forward. It never moves backwards.
func (r *Repository) Advance(ctx context.Context, consumer, partitionKey string, seq int64) error {
	_, err := r.exec.Exec(ctx, `
		INSERT INTO event_dedup_checkpoint (consumer_name, partition_key, last_sequence)
		VALUES ($1, $2, $3)
		ON CONFLICT (consumer_name, partition_key)
		DO UPDATE SET
			last_sequence = GREATEST(event_dedup_checkpoint.last_sequence, EXCLUDED.last_sequence),
			updated_at = now()
	`, consumer, partitionKey, seq)
	if err != nil {
		return fmt.Errorf("advance checkpoint: %w", err)
	}
	return nil
}
