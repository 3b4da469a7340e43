package usecase

import (
	"user-service/internal/data/repository"
	"user-service/internal/messaging"
	"user-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	User UserService
}

func NewService(
	repo *repository.Repository,
	hasher utils.PasswordHasher,
	publisher messaging.EventPublisher,
	log *zap.Logger,
) *Service {
	return &Service{
		User: NewUserService(repo.User, hasher, publisher, log),
	}
}
