package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"offline-restore/internal/platform/config"
	"offline-restore/internal/platform/logger"
	"offline-restore/internal/platform/metrics"
	"offline-restore/internal/restore"

	"github.com/go-chi/chi/v5"
)

func main() {
	_ = config.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg)
	if err != nil {
		log.Error("open store failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	repo := restore.NewRepositoryWithStore(store)
	svc := restore.NewService(repo, cfg.RestoreConcurrency)
	met := metrics.New()
	h := restore.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get(metrics.ScrapePath, func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetStoredManifests(svc.StoredManifestCount(r.Context())) }).ServeHTTP(w, r)
	})
	h.Routes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
		"restore_concurrency", cfg.RestoreConcurrency,
		"log_level", cfg.LogLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped")
}

func openStore(cfg config.Config) (restore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return restore.NewInMemoryStore(), nil
	case config.BackendBadger:
		return restore.OpenBadgerStore(cfg.BadgerDir)
	case config.BackendRedis:
		return restore.NewRedisStore(context.Background(), restore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
