// main.go
package main

import (
	"context"
	"log"
	"time"

	"user-service/cmd"
	"user-service/internal/data/repository"
	"user-service/internal/messaging"
	"user-service/internal/wire"
	"user-service/pkg/database"
	"user-service/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("store", config.Database.Driver),
	)

	repos, closeStore := initStore(config, logger)
	defer closeStore()

	publisher := messaging.NewRabbitPublisher(config.RabbitMQ, logger)
	defer publisher.Close()

	app := wire.Wiring(repos, utils.NewBcryptHasher(), publisher, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

func initStore(config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.Database.Driver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryRepository(), func() {}
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sqlDB := db.StdDB()
		defer sqlDB.Close()

		if err := database.Migrate(ctx, sqlDB); err != nil {
			db.Close()
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	return repository.NewRepository(db, logger), db.Close
}
