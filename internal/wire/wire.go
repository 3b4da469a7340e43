// internal/wire/wire.go
package wire

import (
	"user-service/internal/adaptor"
	"user-service/internal/data/repository"
	"user-service/internal/messaging"
	"user-service/internal/usecase"
	"user-service/pkg/middleware"
	"user-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring builds the service graph on top of the given store and publisher.
func Wiring(
	repo *repository.Repository,
	hasher utils.PasswordHasher,
	publisher messaging.EventPublisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, hasher, publisher, logger)
	handler := adaptor.NewHandler(service, config.App.Name, logger)

	return &App{
		Router: setupRouter(handler, logger),
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:       []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		MaxAge:               300,
		OptionsSuccessStatus: 204,
	}))
	r.Use(middleware.Metrics())

	wireUser(r, handler.User)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
