package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/demo/audittables/models"
)

// TodoRepository interface defines todo database operations. Mutating
// operations take the unit-of-work transaction explicitly so the caller can
// append the matching revision row before committing.
type TodoRepository interface {
	GetAll(ctx context.Context) ([]models.Todo, error)
	GetAllForUpdate(ctx context.Context, tx *sql.Tx) ([]models.Todo, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Todo, error)
	Insert(ctx context.Context, tx *sql.Tx, todo *models.Todo) error
	Update(ctx context.Context, tx *sql.Tx, todo *models.Todo) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	Count(ctx context.Context) (int, error)
}

// todoRepository implements TodoRepository interface
type todoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *sql.DB) TodoRepository {
	return &todoRepository{db: db}
}

const todoColumns = `id, description, completed, created_at, updated_at`

// GetAll retrieves all todos
func (r *todoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return r.list(ctx, r.db)
}

// GetAllForUpdate retrieves all todos inside the given transaction
func (r *todoRepository) GetAllForUpdate(ctx context.Context, tx *sql.Tx) ([]models.Todo, error) {
	return r.list(ctx, tx)
}

func (r *todoRepository) list(ctx context.Context, q querier) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY id ASC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// GetByID retrieves a todo by ID
func (r *todoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	return r.getOne(ctx, r.db, id)
}

// GetForUpdate retrieves a todo by ID inside the given transaction
func (r *todoRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Todo, error) {
	return r.getOne(ctx, tx, id)
}

func (r *todoRepository) getOne(ctx context.Context, q querier, id int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`

	var todo models.Todo
	err := q.QueryRowContext(ctx, query, id).Scan(
		&todo.ID,
		&todo.Description,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &todo, nil
}

// Insert creates a new todo and fills in its generated ID and timestamps
func (r *todoRepository) Insert(ctx context.Context, tx *sql.Tx, todo *models.Todo) error {
	query := `INSERT INTO todos (description, completed, created_at, updated_at) VALUES (?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, query, todo.Description, todo.Completed, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	todo.ID = id
	todo.CreatedAt = now
	todo.UpdatedAt = now
	return nil
}

// Update updates an existing todo
func (r *todoRepository) Update(ctx context.Context, tx *sql.Tx, todo *models.Todo) error {
	query := `UPDATE todos SET description = ?, completed = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, query, todo.Description, todo.Completed, now, todo.ID)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("todo %d: %w", todo.ID, ErrNotFound)
	}

	todo.UpdatedAt = now
	return nil
}

// Delete deletes a todo by ID
func (r *todoRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM todos WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}

	return nil
}

// Count returns the total number of todos
func (r *todoRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}
