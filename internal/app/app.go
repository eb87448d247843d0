// Package app arma las dependencias comunes de los binarios (api y medctl)
// a partir de la configuración.
package app

import (
	"context"

	"daily-medicine-reminder/internal/adapters/storage"
	"daily-medicine-reminder/internal/config"
	"daily-medicine-reminder/internal/platform/clock"
	"daily-medicine-reminder/internal/platform/logger"
)

type App struct {
	Config *config.Config
	Log    logger.Logger
	Clock  *clock.Clock
	Repos  *storage.Repositories
}

// New construye logger, clock y storage. Si algo falla, cierra lo ya abierto.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(logger.Options{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Format:     logger.ParseFormat(cfg.Log.Format),
		App:        cfg.App.Name,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		return nil, err
	}

	clk, err := clock.FromName(cfg.Clock.Timezone)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	repos, err := storage.Open(ctx, StorageOptions(cfg), log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	log.Info("app initialized", map[string]any{
		"environment": cfg.App.Environment,
		"storage":     repos.Driver,
		"timezone":    clk.Location().String(),
	})
	return &App{Config: cfg, Log: log, Clock: clk, Repos: repos}, nil
}

func StorageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Driver:      cfg.Storage.Driver,
		DSN:         cfg.Storage.DSN,
		SQLitePath:  cfg.Storage.SQLitePath,
		MaxConns:    cfg.Storage.MaxConns,
		AutoMigrate: cfg.Storage.AutoMigrate,
	}
}

func (a *App) Close() error {
	err := a.Repos.Close()
	// Sync sobre stdout/stderr falla en algunos SO; no es un error real.
	_ = a.Log.Sync()
	return err
}
