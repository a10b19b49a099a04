package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/demo/audittables/models"
)

// MockRevisionRepository is a testify mock for repositories.RevisionRepository
type MockRevisionRepository struct {
	mock.Mock
}

func NewMockRevisionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRevisionRepository {
	m := &MockRevisionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRevisionRepository) Append(ctx context.Context, tx *sql.Tx, rev *models.TodoRevision) error {
	args := m.Called(ctx, tx, rev)
	return args.Error(0)
}

func (m *MockRevisionRepository) FindLast(ctx context.Context, todoID int64) (*models.TodoRevision, error) {
	args := m.Called(ctx, todoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TodoRevision), args.Error(1)
}

func (m *MockRevisionRepository) FindAll(ctx context.Context, todoID int64) ([]models.TodoRevision, error) {
	args := m.Called(ctx, todoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TodoRevision), args.Error(1)
}

func (m *MockRevisionRepository) FindPaged(ctx context.Context, todoID int64, limit, offset int) ([]models.TodoRevision, error) {
	args := m.Called(ctx, todoID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TodoRevision), args.Error(1)
}

func (m *MockRevisionRepository) FindByRevision(ctx context.Context, todoID, revision int64) (*models.TodoRevision, error) {
	args := m.Called(ctx, todoID, revision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TodoRevision), args.Error(1)
}

func (m *MockRevisionRepository) CountFor(ctx context.Context, todoID int64) (int, error) {
	args := m.Called(ctx, todoID)
	return args.Int(0), args.Error(1)
}
