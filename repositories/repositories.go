package repositories

import (
	"context"
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Todos     TodoRepository
	Revisions RevisionRepository
	Sequencer RevisionSequencer
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Todos:     NewTodoRepository(db),
		Revisions: NewRevisionRepository(db),
		Sequencer: NewRevisionSequencer(),
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx, so read helpers can run
// inside or outside a unit of work.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
