package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demo/audittables/database"
	"github.com/demo/audittables/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := database.Initialize(dbPath)
	require.NoError(t, err, "failed to initialize test database")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// insertTodo creates a todo row directly, returning its id
func insertTodo(t *testing.T, db *sql.DB, description string) int64 {
	todo := &models.Todo{Description: description}
	repo := NewTodoRepository(db)

	err := database.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return repo.Insert(context.Background(), tx, todo)
	})
	require.NoError(t, err)

	return todo.ID
}

// appendRevision writes one revision row in its own transaction
func appendRevision(t *testing.T, db *sql.DB, rev *models.TodoRevision) error {
	repo := NewRevisionRepository(db)
	return database.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return repo.Append(context.Background(), tx, rev)
	})
}

func TestRevisionSequencer(t *testing.T) {
	db := setupTestDB(t)
	seq := NewRevisionSequencer()
	ctx := context.Background()

	var values []int64
	for i := 0; i < 5; i++ {
		err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
			v, err := seq.Next(ctx, tx)
			if err != nil {
				return err
			}
			values = append(values, v)
			return nil
		})
		require.NoError(t, err)
	}

	require.Len(t, values, 5)
	for i, v := range values {
		assert.Equal(t, int64(i+1), v, "expected strictly increasing values starting at 1")
	}
}

func TestRevisionSequencerRollbackReleasesNumber(t *testing.T) {
	db := setupTestDB(t)
	seq := NewRevisionSequencer()
	ctx := context.Background()

	// A rolled-back unit of work must not burn a revision number; otherwise
	// the committed sequence would show gaps that never correspond to a
	// change-set.
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := seq.Next(ctx, tx); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	var value int64
	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		v, err := seq.Next(ctx, tx)
		value = v
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestRevisionSequencerConcurrent(t *testing.T) {
	db := setupTestDB(t)
	seq := NewRevisionSequencer()
	ctx := context.Background()

	const workers = 8
	const perWorker = 5

	results := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
					v, err := seq.Next(ctx, tx)
					if err != nil {
						return err
					}
					results <- v
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for v := range results {
		assert.False(t, seen[v], "revision number %d allocated twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestTodoRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTodoRepository(db)
	ctx := context.Background()

	// Create
	todo := &models.Todo{Description: "first"}
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.Insert(ctx, tx, todo)
	})
	require.NoError(t, err)
	require.NotZero(t, todo.ID, "expected todo ID to be set after insert")

	// GetByID
	retrieved, err := repo.GetByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", retrieved.Description)
	assert.False(t, retrieved.Completed)

	// GetAll
	todos, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	// Update
	todo.Description = "first todo"
	todo.Completed = true
	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.Update(ctx, tx, todo)
	})
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "first todo", updated.Description)
	assert.True(t, updated.Completed)

	// Count
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Delete
	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.Delete(ctx, tx, todo.ID)
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Update/Delete on missing rows report NotFound
	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.Update(ctx, tx, todo)
	})
	assert.ErrorIs(t, err, ErrNotFound)

	err = database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return repo.Delete(ctx, tx, todo.ID)
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevisionRepositoryAppendAndQuery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevisionRepository(db)
	ctx := context.Background()

	todoID := insertTodo(t, db, "tracked")
	otherID := insertTodo(t, db, "other")

	changeSet := uuid.New()
	kinds := []models.ChangeKind{models.ChangeKindAdd, models.ChangeKindModify, models.ChangeKindDelete}
	for i, kind := range kinds {
		err := appendRevision(t, db, &models.TodoRevision{
			TodoID:      todoID,
			Revision:    int64(i + 1),
			ChangeKind:  kind,
			ChangeSetID: changeSet,
			Actor:       "tester",
			Snapshot:    models.TodoSnapshot{Description: "tracked", Completed: kind == models.ChangeKindModify},
			RecordedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	// A different todo may reuse its own revision numbering space
	require.NoError(t, appendRevision(t, db, &models.TodoRevision{
		TodoID:      otherID,
		Revision:    4,
		ChangeKind:  models.ChangeKindAdd,
		ChangeSetID: uuid.New(),
		Snapshot:    models.TodoSnapshot{Description: "other"},
	}))

	// FindLast
	last, err := repo.FindLast(ctx, todoID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last.Revision)
	assert.Equal(t, models.ChangeKindDelete, last.ChangeKind)
	assert.Equal(t, changeSet, last.ChangeSetID)
	assert.Equal(t, "tester", last.Actor)

	// FindAll returns complete ascending history for one todo only
	all, err := repo.FindAll(ctx, todoID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, rev := range all {
		assert.Equal(t, int64(i+1), rev.Revision)
		assert.Equal(t, kinds[i], rev.ChangeKind)
	}

	// FindByRevision
	rev, err := repo.FindByRevision(ctx, todoID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ChangeKindModify, rev.ChangeKind)
	assert.True(t, rev.Snapshot.Completed)

	_, err = repo.FindByRevision(ctx, todoID, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	// FindPaged
	page, err := repo.FindPaged(ctx, todoID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].Revision)
	assert.Equal(t, int64(2), page[1].Revision)

	page, err = repo.FindPaged(ctx, todoID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(3), page[0].Revision)

	// CountFor
	count, err := repo.CountFor(ctx, todoID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Unknown todo
	_, err = repo.FindLast(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err = repo.FindAll(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRevisionRepositoryConflict(t *testing.T) {
	db := setupTestDB(t)

	todoID := insertTodo(t, db, "conflicted")

	rev := &models.TodoRevision{
		TodoID:      todoID,
		Revision:    1,
		ChangeKind:  models.ChangeKindAdd,
		ChangeSetID: uuid.New(),
		Snapshot:    models.TodoSnapshot{Description: "conflicted"},
	}
	require.NoError(t, appendRevision(t, db, rev))

	dup := &models.TodoRevision{
		TodoID:      todoID,
		Revision:    1,
		ChangeKind:  models.ChangeKindModify,
		ChangeSetID: uuid.New(),
		Snapshot:    models.TodoSnapshot{Description: "conflicted again"},
	}
	err := appendRevision(t, db, dup)
	assert.ErrorIs(t, err, ErrRevisionConflict)
}

func TestRevisionRepositoryRejectsUnknownKind(t *testing.T) {
	db := setupTestDB(t)

	todoID := insertTodo(t, db, "bad kind")

	err := appendRevision(t, db, &models.TodoRevision{
		TodoID:      todoID,
		Revision:    1,
		ChangeKind:  models.ChangeKind("REPLACE"),
		ChangeSetID: uuid.New(),
	})
	assert.Error(t, err)
}
