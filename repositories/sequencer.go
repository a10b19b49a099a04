package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// RevisionSequencer issues monotonically increasing revision numbers, one
// per committed unit of work. A change-set that touches several todos
// allocates once and shares the number across all its revision rows.
type RevisionSequencer interface {
	Next(ctx context.Context, tx *sql.Tx) (int64, error)
}

type counterSequencer struct{}

// NewRevisionSequencer creates a sequencer backed by the revision_counter table
func NewRevisionSequencer() RevisionSequencer {
	return &counterSequencer{}
}

// Next allocates the next revision number inside the caller's transaction.
// The UPDATE serializes concurrent allocators on the counter row, so two
// units of work can never observe the same value.
func (s *counterSequencer) Next(ctx context.Context, tx *sql.Tx) (int64, error) {
	query := `UPDATE revision_counter SET value = value + 1 WHERE id = 1 RETURNING value`

	var value int64
	if err := tx.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to allocate revision number: %w", err)
	}

	return value, nil
}
