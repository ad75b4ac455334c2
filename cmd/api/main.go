package main

import (
	"log/slog"
	"os"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/api"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/config"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/logging"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/storage"
)

func main() {
	cfg := config.LoadOrEnv()
	logger := logging.NewLogger(cfg.Observability.Logging)

	store, err := storage.New(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	server := api.NewServer(store, logger)
	router := server.Router()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("starting API server", slog.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
