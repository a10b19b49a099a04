package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/demo/audittables/models"
	"github.com/demo/audittables/repositories/mocks"
)

func TestAuditServiceRejectsInvalidIDs(t *testing.T) {
	mockRepo := mocks.NewMockRevisionRepository(t)
	svc := NewAuditService(mockRepo)
	ctx := context.Background()

	_, err := svc.LastRevision(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Revisions(ctx, -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RevisionsPaged(ctx, 0, 0, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RevisionsPaged(ctx, 1, -1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Revision(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuditServicePagedOffsets(t *testing.T) {
	mockRepo := mocks.NewMockRevisionRepository(t)
	svc := NewAuditService(mockRepo)
	ctx := context.Background()

	// page 2 of size 2 translates to limit 2, offset 4
	mockRepo.On("FindPaged", mock.Anything, int64(7), 2, 4).Return([]models.TodoRevision{}, nil).Once()
	_, err := svc.RevisionsPaged(ctx, 7, 2, 2)
	assert.NoError(t, err)

	// size 0 falls back to the default page size
	mockRepo.On("FindPaged", mock.Anything, int64(7), DefaultPageSize, 0).Return([]models.TodoRevision{}, nil).Once()
	_, err = svc.RevisionsPaged(ctx, 7, 0, 0)
	assert.NoError(t, err)

	// oversized requests are clamped
	mockRepo.On("FindPaged", mock.Anything, int64(7), MaxPageSize, MaxPageSize).Return([]models.TodoRevision{}, nil).Once()
	_, err = svc.RevisionsPaged(ctx, 7, 1, 1000)
	assert.NoError(t, err)
}

func TestAuditServicePassthrough(t *testing.T) {
	mockRepo := mocks.NewMockRevisionRepository(t)
	svc := NewAuditService(mockRepo)
	ctx := context.Background()

	want := &models.TodoRevision{TodoID: 3, Revision: 9, ChangeKind: models.ChangeKindModify}

	mockRepo.On("FindLast", mock.Anything, int64(3)).Return(want, nil).Once()
	got, err := svc.LastRevision(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	mockRepo.On("FindByRevision", mock.Anything, int64(3), int64(9)).Return(want, nil).Once()
	got, err = svc.Revision(ctx, 3, 9)
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	history := []models.TodoRevision{*want}
	mockRepo.On("FindAll", mock.Anything, int64(3)).Return(history, nil).Once()
	all, err := svc.Revisions(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, history, all)
}
