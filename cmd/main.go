// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/catalog"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/handler"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/logger"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to an optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "activities-api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// ── 1. Configuration and logging ──────────────────────────────────────
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// ── 2. Seed the registry ──────────────────────────────────────────────
	seed, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	registry := repository.NewRegistry(seed,
		repository.WithCapacityEnforcement(cfg.Registry.EnforceCapacity),
	)
	log.Info("registry seeded",
		zap.Int("activities", len(seed)),
		zap.String("catalog", catalogSource(cfg.Catalog.Path)),
		zap.Bool("enforce_capacity", cfg.Registry.EnforceCapacity),
	)

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	activitySvc := service.NewActivityService(registry, log)
	activityHandler := handler.NewActivityHandler(activitySvc, log)
	router := handler.NewRouter(activityHandler, log, handler.RouterOptions{
		StaticDir: staticDir(cfg.Server.StaticDir, log),
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func loadCatalog(path string) (map[string]model.Activity, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	seed, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return seed, nil
}

func catalogSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

// staticDir returns dir if it exists, otherwise "" so the router skips
// static file serving.
func staticDir(dir string, log *zap.Logger) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Warn("static directory not found, front end disabled", zap.String("dir", dir))
		return ""
	}
	return dir
}
