package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donapoint/internal/platform/config"
	"donapoint/internal/platform/httpserver"
	"donapoint/internal/platform/logger"
	platformredis "donapoint/internal/platform/redis"
	"donapoint/internal/point/cache"
	pointhandler "donapoint/internal/point/handler"
	pointmetrics "donapoint/internal/point/metrics"
	"donapoint/internal/point/service"
	"donapoint/internal/point/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal point packages.
func main() {
	_ = godotenv.Load(".env")

	cfg := config.FromEnv()
	log := logger.New()

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(pointmetrics.New()),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(cache.NewRedis(redisClient.Client, cfg.CacheTTL)))
		log.Info("visible point cache enabled", "ttl", cfg.CacheTTL)
	}

	svc := service.New(st, opts...)

	router := newRouter(svc, log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting donapoint server", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func newRouter(svc *service.Service, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChain(log)...)
	r.Handle("/metrics", promhttp.Handler())
	pointhandler.New(svc, log).Register(r)
	return r
}

func openStore(cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, using in-memory store")
		return store.NewInMemory(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	pg := store.NewPostgres(db)
	if err := pg.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("postgres store ready")
	return pg, func() { _ = db.Close() }, nil
}
