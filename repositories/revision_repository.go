package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/demo/audittables/models"
)

// RevisionRepository is the audit side of the store: an append-only log of
// todo revisions plus the read API over it. No update or delete exists for
// revision rows.
type RevisionRepository interface {
	Append(ctx context.Context, tx *sql.Tx, rev *models.TodoRevision) error
	FindLast(ctx context.Context, todoID int64) (*models.TodoRevision, error)
	FindAll(ctx context.Context, todoID int64) ([]models.TodoRevision, error)
	FindPaged(ctx context.Context, todoID int64, limit, offset int) ([]models.TodoRevision, error)
	FindByRevision(ctx context.Context, todoID, revision int64) (*models.TodoRevision, error)
	CountFor(ctx context.Context, todoID int64) (int, error)
}

// revisionRepository implements RevisionRepository interface
type revisionRepository struct {
	db *sql.DB
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(db *sql.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

const revisionColumns = `id, todo_id, revision, change_kind, change_set_id, actor, snapshot, recorded_at`

// Append inserts one immutable revision row inside the caller's transaction.
// A (todo_id, revision) collision is a broken sequencer invariant and maps
// to ErrRevisionConflict.
func (r *revisionRepository) Append(ctx context.Context, tx *sql.Tx, rev *models.TodoRevision) error {
	if !rev.ChangeKind.Valid() {
		return fmt.Errorf("invalid change kind %q", rev.ChangeKind)
	}

	snapshot, err := json.Marshal(rev.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if rev.RecordedAt.IsZero() {
		rev.RecordedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO todo_revisions (todo_id, revision, change_kind, change_set_id, actor, snapshot, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		rev.TodoID,
		rev.Revision,
		string(rev.ChangeKind),
		rev.ChangeSetID.String(),
		rev.Actor,
		string(snapshot),
		rev.RecordedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("revision %d already recorded for todo %d: %w", rev.Revision, rev.TodoID, ErrRevisionConflict)
		}
		return fmt.Errorf("failed to append revision: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	rev.ID = id
	return nil
}

// FindLast retrieves the revision with the highest revision number for a todo
func (r *revisionRepository) FindLast(ctx context.Context, todoID int64) (*models.TodoRevision, error) {
	query := `
		SELECT ` + revisionColumns + `
		FROM todo_revisions
		WHERE todo_id = ?
		ORDER BY revision DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, todoID)
}

// FindAll retrieves the complete revision history for a todo, ascending by
// revision number
func (r *revisionRepository) FindAll(ctx context.Context, todoID int64) ([]models.TodoRevision, error) {
	query := `
		SELECT ` + revisionColumns + `
		FROM todo_revisions
		WHERE todo_id = ?
		ORDER BY revision ASC
	`
	return r.query(ctx, query, todoID)
}

// FindPaged retrieves one page of revision history, ascending by revision
// number. Append-only rows make offset pagination stable: pages already
// returned never change when later revisions arrive.
func (r *revisionRepository) FindPaged(ctx context.Context, todoID int64, limit, offset int) ([]models.TodoRevision, error) {
	query := `
		SELECT ` + revisionColumns + `
		FROM todo_revisions
		WHERE todo_id = ?
		ORDER BY revision ASC
		LIMIT ? OFFSET ?
	`
	return r.query(ctx, query, todoID, limit, offset)
}

// FindByRevision retrieves a specific revision of a todo
func (r *revisionRepository) FindByRevision(ctx context.Context, todoID, revision int64) (*models.TodoRevision, error) {
	query := `
		SELECT ` + revisionColumns + `
		FROM todo_revisions
		WHERE todo_id = ? AND revision = ?
	`
	return r.getOne(ctx, query, todoID, revision)
}

// CountFor returns the number of revisions recorded for a todo
func (r *revisionRepository) CountFor(ctx context.Context, todoID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todo_revisions WHERE todo_id = ?`, todoID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count revisions: %w", err)
	}
	return count, nil
}

func (r *revisionRepository) getOne(ctx context.Context, query string, args ...any) (*models.TodoRevision, error) {
	rev, err := scanRevision(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("revision: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}
	return rev, nil
}

func (r *revisionRepository) query(ctx context.Context, query string, args ...any) ([]models.TodoRevision, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.TodoRevision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions = append(revisions, *rev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revisions: %w", err)
	}

	return revisions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(s scanner) (*models.TodoRevision, error) {
	var rev models.TodoRevision
	var changeKind string
	var changeSetID string
	var snapshot []byte

	err := s.Scan(
		&rev.ID,
		&rev.TodoID,
		&rev.Revision,
		&changeKind,
		&changeSetID,
		&rev.Actor,
		&snapshot,
		&rev.RecordedAt,
	)
	if err != nil {
		return nil, err
	}

	rev.ChangeKind = models.ChangeKind(changeKind)

	id, err := uuid.Parse(changeSetID)
	if err != nil {
		return nil, fmt.Errorf("invalid change set id %q: %w", changeSetID, err)
	}
	rev.ChangeSetID = id

	if err := json.Unmarshal(snapshot, &rev.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &rev, nil
}
