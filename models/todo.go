package models

import (
	"strings"
	"time"
)

// Todo represents a tracked todo item
type Todo struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Snapshot captures the todo's current field values for the revision log
func (t *Todo) Snapshot() TodoSnapshot {
	return TodoSnapshot{
		Description: t.Description,
		Completed:   t.Completed,
	}
}

// TodoForm represents request data for creating/updating todos
type TodoForm struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Validate validates the todo form data
func (f *TodoForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Description) == "" {
		errors = append(errors, "Description is required")
	}

	if len(f.Description) > 500 {
		errors = append(errors, "Description must be less than 500 characters")
	}

	return errors
}
