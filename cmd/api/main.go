// Package main is the entry point for the Liturgy API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/api"
	"github.com/zapponejosh/liturgy-api/internal/config"
	"github.com/zapponejosh/liturgy-api/internal/database"
	"github.com/zapponejosh/liturgy-api/internal/logger"
	"github.com/zapponejosh/liturgy-api/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("liturgy API stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting liturgy API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.Timezone),
		slog.String("corpus_christi", string(cfg.Policy())),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", applied))

	if cfg.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY is not set; admin endpoints require an admin user key")
	}

	handlers, err := api.NewHandlers(ctx, db, cfg, log)
	if err != nil {
		return fmt.Errorf("create handlers: %w", err)
	}

	// Keep the cached day current across midnight in the configured zone.
	sched := scheduler.New(cfg.Location(), log)
	if err := sched.Add("refresh-today", cfg.TodayRefreshCron, handlers.RefreshToday); err != nil {
		return fmt.Errorf("schedule today refresh: %w", err)
	}
	sched.Start()
	log.Info("scheduler started", slog.Time("next_run", sched.Next()))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("liturgy API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("scheduler did not stop cleanly", slog.Any("error", err))
	}

	log.Info("liturgy API stopped")
	return nil
}
