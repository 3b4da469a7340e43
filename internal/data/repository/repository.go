package repository

import (
	"user-service/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User UserRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User: NewUserRepository(db, log),
	}
}

// NewMemoryRepository backs every repository with process memory.
func NewMemoryRepository() *Repository {
	return &Repository{
		User: NewMemoryUserRepository(),
	}
}
