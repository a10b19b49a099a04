package services

import (
	"context"
	"fmt"

	"github.com/demo/audittables/models"
	"github.com/demo/audittables/repositories"
)

const (
	// DefaultPageSize is used when a paged query does not specify a size
	DefaultPageSize = 20
	// MaxPageSize caps the size of a single revision history page
	MaxPageSize = 100
)

// AuditService is the read-only revision history API. It never touches the
// write path; readers observe whatever snapshot the store gives them.
type AuditService interface {
	LastRevision(ctx context.Context, todoID int64) (*models.TodoRevision, error)
	Revisions(ctx context.Context, todoID int64) ([]models.TodoRevision, error)
	RevisionsPaged(ctx context.Context, todoID int64, page, size int) ([]models.TodoRevision, error)
	Revision(ctx context.Context, todoID, revision int64) (*models.TodoRevision, error)
}

// auditService implements AuditService interface
type auditService struct {
	revRepo repositories.RevisionRepository
}

// NewAuditService creates a new audit query service
func NewAuditService(revRepo repositories.RevisionRepository) AuditService {
	return &auditService{revRepo: revRepo}
}

// LastRevision returns the revision with the highest revision number for a todo
func (s *auditService) LastRevision(ctx context.Context, todoID int64) (*models.TodoRevision, error) {
	if todoID <= 0 {
		return nil, fmt.Errorf("%w: invalid todo ID %d", ErrValidation, todoID)
	}
	return s.revRepo.FindLast(ctx, todoID)
}

// Revisions returns the complete history for a todo, ascending by revision
func (s *auditService) Revisions(ctx context.Context, todoID int64) ([]models.TodoRevision, error) {
	if todoID <= 0 {
		return nil, fmt.Errorf("%w: invalid todo ID %d", ErrValidation, todoID)
	}
	return s.revRepo.FindAll(ctx, todoID)
}

// RevisionsPaged returns one page of history, ascending by revision. Page
// numbering starts at 0; size is clamped to MaxPageSize.
func (s *auditService) RevisionsPaged(ctx context.Context, todoID int64, page, size int) ([]models.TodoRevision, error) {
	if todoID <= 0 {
		return nil, fmt.Errorf("%w: invalid todo ID %d", ErrValidation, todoID)
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", ErrValidation)
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return s.revRepo.FindPaged(ctx, todoID, size, page*size)
}

// Revision returns the revision of a todo at a specific revision number
func (s *auditService) Revision(ctx context.Context, todoID, revision int64) (*models.TodoRevision, error) {
	if todoID <= 0 {
		return nil, fmt.Errorf("%w: invalid todo ID %d", ErrValidation, todoID)
	}
	if revision <= 0 {
		return nil, fmt.Errorf("%w: invalid revision number %d", ErrValidation, revision)
	}
	return s.revRepo.FindByRevision(ctx, todoID, revision)
}
