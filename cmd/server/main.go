package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chatpane/chatpane/internal/api"
	"github.com/chatpane/chatpane/internal/config"
	"github.com/chatpane/chatpane/internal/remote"
	"github.com/chatpane/chatpane/internal/session"
	"github.com/chatpane/chatpane/internal/store"
	"github.com/chatpane/chatpane/internal/window"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize storage",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer db.Close()

	var completer remote.Completer
	if cfg.ProxyURL != "" {
		completer = remote.NewProxy(cfg.ProxyURL)
		logger.Info("using proxy endpoint", zap.String("url", cfg.ProxyURL))
	} else {
		completer, err = remote.NewProvider(cfg.ProviderBaseURL, cfg.ProviderKey, cfg.Model, cfg.Temperature)
		if err != nil {
			logger.Fatal("failed to initialize provider client", zap.Error(err))
		}
		logger.Warn("no proxy configured, calling the provider directly with an inline credential",
			zap.String("baseURL", cfg.ProviderBaseURL),
			zap.String("model", cfg.Model))
	}

	sessions := session.NewRegistry(session.Options{
		Store:        db,
		Completer:    completer,
		Counter:      window.NewCounter(cfg.Model),
		Logger:       logger,
		SystemPrompt: cfg.SystemPrompt,
		HistoryLimit: cfg.HistoryLimit,
		Timeout:      cfg.RequestTimeout,
	})

	router := api.NewRouter(logger, sessions, "web")

	logger.Info("Starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
