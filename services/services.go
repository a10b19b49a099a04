package services

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/demo/audittables/repositories"
)

// Services struct holds all service interfaces
type Services struct {
	Todos TodoService
	Audit AuditService
}

// NewServices creates and initializes all services
func NewServices(db *sql.DB, repos *repositories.Repositories, logger *zap.Logger) *Services {
	return &Services{
		Todos: NewTodoService(db, repos.Todos, repos.Revisions, repos.Sequencer, logger),
		Audit: NewAuditService(repos.Revisions),
	}
}
