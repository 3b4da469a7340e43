package adaptor

import (
	"user-service/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	User *UserHandler
}

func NewHandler(service *usecase.Service, serviceName string, log *zap.Logger) *Handler {
	return &Handler{
		User: NewUserHandler(service.User, serviceName, log),
	}
}
