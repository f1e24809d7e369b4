package cli

import (
	"fmt"
	"log/slog"

	coreapp "cinegraph/internal/core/app"
	"cinegraph/internal/core/config"
)

type appFactory interface {
	New(cfg *config.Config, logger *slog.Logger) (*coreapp.App, error)
}

type coreAppFactory struct{}

func (coreAppFactory) New(cfg *config.Config, logger *slog.Logger) (*coreapp.App, error) {
	return coreapp.New(cfg, logger)
}

func initializeApp(cfg *config.Config, logger *slog.Logger, factory appFactory) (*coreapp.App, error) {
	if factory == nil {
		return nil, fmt.Errorf("app factory is required")
	}
	return factory.New(cfg, logger)
}
