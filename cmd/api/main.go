// docs/docs.go se regenera desde las anotaciones de los handlers.
//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g cmd/api/main.go -d ../.. -o ../../docs --parseInternal --outputTypes go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"daily-medicine-reminder/internal/app"
	"daily-medicine-reminder/internal/config"
	"daily-medicine-reminder/internal/middleware"
	"daily-medicine-reminder/internal/platform/metrics"
	"daily-medicine-reminder/internal/platform/tracing"
	"daily-medicine-reminder/internal/router"
)

// @title						Daily Medicine Reminder API
// @version					1.0
// @description				Medicinas, horarios, tomas diarias y estadísticas de adherencia.
// @BasePath					/api
// @schemes					http https
// @produce					json
// @accept						json
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// CONFIG_FILE opcional; sin archivo todo sale de env + defaults.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.Log

	tp, err := tracing.Init(ctx, tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", map[string]any{"error": err.Error()})
		}
	}()

	var m *metrics.Collector
	if cfg.Metrics.Enabled {
		m = metrics.NewCollector(cfg.App.Name)
	}

	var rl *middleware.RateLimitOptions
	if cfg.RateLimit.Enabled {
		rl = &middleware.RateLimitOptions{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}
	}

	handler := router.NewRouter(router.Options{
		Repos:        a.Repos,
		Clock:        a.Clock,
		Logger:       log,
		Metrics:      m,
		MetricsPath:  cfg.Metrics.Path,
		RateLimit:    rl,
		ServiceName:  cfg.App.Name,
		Environment:  cfg.App.Environment,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "storage": a.Repos.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
