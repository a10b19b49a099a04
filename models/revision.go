package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeKind classifies a revision as a creation, modification, or deletion
type ChangeKind string

const (
	ChangeKindAdd    ChangeKind = "ADD"
	ChangeKindModify ChangeKind = "MODIFY"
	ChangeKindDelete ChangeKind = "DELETE"
)

// Valid reports whether the change kind is one of the known values
func (k ChangeKind) Valid() bool {
	switch k {
	case ChangeKindAdd, ChangeKindModify, ChangeKindDelete:
		return true
	}
	return false
}

// TodoSnapshot is the full set of todo field values at a given revision
type TodoSnapshot struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TodoRevision is one immutable row in the revision log. Rows are
// append-only and outlive the todo they describe; TodoID is a reference,
// not ownership.
type TodoRevision struct {
	ID          int64        `json:"-" db:"id"`
	TodoID      int64        `json:"todo_id" db:"todo_id"`
	Revision    int64        `json:"revision" db:"revision"`
	ChangeKind  ChangeKind   `json:"change_kind" db:"change_kind"`
	ChangeSetID uuid.UUID    `json:"change_set_id" db:"change_set_id"`
	Actor       string       `json:"actor,omitempty" db:"actor"`
	Snapshot    TodoSnapshot `json:"snapshot" db:"snapshot"`
	RecordedAt  time.Time    `json:"recorded_at" db:"recorded_at"`
}
