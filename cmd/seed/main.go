package main

import (
	"flag"

	"github.com/xaenox/parcel-bot/internal/storage"
	"github.com/xaenox/parcel-bot/pkg/config"
	"go.uber.org/zap"
)

// Applies the schema and loads deterministic sample data for local runs.
func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	store, err := storage.NewPostgresStorage(storage.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	if err := store.Seed(); err != nil {
		logger.Fatal("Failed to seed database", zap.Error(err))
	}

	logger.Info("Database schema applied and sample data loaded")
}
