// One-shot smoke check: send a single prompt through the configured
// completion path and print the reply.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/chatpane/chatpane/internal/config"
	"github.com/chatpane/chatpane/internal/models"
	"github.com/chatpane/chatpane/internal/remote"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	prompt := "Say hello in one short sentence."
	if len(os.Args) > 1 {
		prompt = strings.Join(os.Args[1:], " ")
	}

	var completer remote.Completer
	if cfg.ProxyURL != "" {
		completer = remote.NewProxy(cfg.ProxyURL)
	} else {
		completer, err = remote.NewProvider(cfg.ProviderBaseURL, cfg.ProviderKey, cfg.Model, cfg.Temperature)
		if err != nil {
			logger.Fatal("failed to initialize provider client", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	reply, err := completer.Complete(ctx, []models.Message{
		{Role: models.RoleSystem, Content: cfg.SystemPrompt},
		{Role: models.RoleUser, Content: prompt},
	})
	if err != nil {
		logger.Fatal("completion failed", zap.Error(err))
	}
	fmt.Println(reply)
}
