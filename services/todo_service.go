package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/demo/audittables/database"
	"github.com/demo/audittables/models"
	"github.com/demo/audittables/reqctx"
	"github.com/demo/audittables/repositories"
)

// TodoService is the entity store: normal reads plus mutating operations
// that mirror every change into the revision log. Each mutation runs in one
// transaction covering both the todo row and its revision row; if the
// revision append fails, the todo change rolls back with it.
type TodoService interface {
	List(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (*models.Todo, error)
	Create(ctx context.Context, form *models.TodoForm) (*models.Todo, error)
	Update(ctx context.Context, id int64, form *models.TodoForm) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	SetAllCompleted(ctx context.Context, completed bool) (int, error)
}

// todoService implements TodoService interface
type todoService struct {
	db        *sql.DB
	todoRepo  repositories.TodoRepository
	revRepo   repositories.RevisionRepository
	sequencer repositories.RevisionSequencer
	logger    *zap.Logger
}

// NewTodoService creates a new todo service
func NewTodoService(
	db *sql.DB,
	todoRepo repositories.TodoRepository,
	revRepo repositories.RevisionRepository,
	sequencer repositories.RevisionSequencer,
	logger *zap.Logger,
) TodoService {
	return &todoService{
		db:        db,
		todoRepo:  todoRepo,
		revRepo:   revRepo,
		sequencer: sequencer,
		logger:    logger,
	}
}

// List retrieves all todos
func (s *todoService) List(ctx context.Context) ([]models.Todo, error) {
	return s.todoRepo.GetAll(ctx)
}

// Get retrieves a todo by ID
func (s *todoService) Get(ctx context.Context, id int64) (*models.Todo, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid todo ID %d", ErrValidation, id)
	}
	return s.todoRepo.GetByID(ctx, id)
}

// Create creates a new todo and records its ADD revision
func (s *todoService) Create(ctx context.Context, form *models.TodoForm) (*models.Todo, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	todo := &models.Todo{
		Description: strings.TrimSpace(form.Description),
		Completed:   form.Completed,
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.todoRepo.Insert(ctx, tx, todo); err != nil {
			return err
		}
		return s.recordChange(ctx, tx, todo, models.ChangeKindAdd)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("todo created", zap.Int64("id", todo.ID))
	return todo, nil
}

// Update updates an existing todo and records its MODIFY revision
func (s *todoService) Update(ctx context.Context, id int64, form *models.TodoForm) (*models.Todo, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid todo ID %d", ErrValidation, id)
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, ", "))
	}

	var todo *models.Todo
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, err := s.todoRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		existing.Description = strings.TrimSpace(form.Description)
		existing.Completed = form.Completed

		if err := s.todoRepo.Update(ctx, tx, existing); err != nil {
			return err
		}

		todo = existing
		return s.recordChange(ctx, tx, existing, models.ChangeKindModify)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo updated", zap.Int64("id", id))
	return todo, nil
}

// Delete deletes a todo and records its DELETE revision. The revision row
// carries the last known snapshot, so history survives the entity.
func (s *todoService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid todo ID %d", ErrValidation, id)
	}

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, err := s.todoRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.todoRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		return s.recordChange(ctx, tx, existing, models.ChangeKindDelete)
	})
	if err != nil {
		return err
	}

	s.logger.Info("todo deleted", zap.Int64("id", id))
	return nil
}

// SetAllCompleted sets the completed flag on every todo in a single unit of
// work. All resulting MODIFY revisions share one revision number and one
// change-set id, so the change-set can be reconstructed across entities.
func (s *todoService) SetAllCompleted(ctx context.Context, completed bool) (int, error) {
	var changed int

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		todos, err := s.todoRepo.GetAllForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		changeSetID := reqctx.GetChangeSetID(ctx)
		var revision int64

		for i := range todos {
			todo := &todos[i]
			if todo.Completed == completed {
				continue
			}

			todo.Completed = completed
			if err := s.todoRepo.Update(ctx, tx, todo); err != nil {
				return err
			}

			// One revision number for the whole change-set, allocated on
			// the first actual change.
			if revision == 0 {
				if revision, err = s.sequencer.Next(ctx, tx); err != nil {
					return err
				}
			}

			if err := s.appendRevision(ctx, tx, todo, revision, models.ChangeKindModify, changeSetID); err != nil {
				return err
			}
			changed++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("todos completion updated", zap.Int("changed", changed), zap.Bool("completed", completed))
	return changed, nil
}

// recordChange allocates a revision number and appends the revision row for
// one changed todo, inside the same transaction as the entity write.
func (s *todoService) recordChange(ctx context.Context, tx *sql.Tx, todo *models.Todo, kind models.ChangeKind) error {
	revision, err := s.sequencer.Next(ctx, tx)
	if err != nil {
		return err
	}
	return s.appendRevision(ctx, tx, todo, revision, kind, reqctx.GetChangeSetID(ctx))
}

func (s *todoService) appendRevision(
	ctx context.Context,
	tx *sql.Tx,
	todo *models.Todo,
	revision int64,
	kind models.ChangeKind,
	changeSetID uuid.UUID,
) error {
	return s.revRepo.Append(ctx, tx, &models.TodoRevision{
		TodoID:      todo.ID,
		Revision:    revision,
		ChangeKind:  kind,
		ChangeSetID: changeSetID,
		Actor:       reqctx.GetActor(ctx),
		Snapshot:    todo.Snapshot(),
		RecordedAt:  time.Now().UTC(),
	})
}
