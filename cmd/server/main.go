package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/news-portal-api/internal/api"
	"github.com/news-portal-api/internal/config"
	"github.com/news-portal-api/internal/database"
	"github.com/news-portal-api/internal/metrics"
	"github.com/news-portal-api/internal/policy"
	"github.com/news-portal-api/internal/ratelimit"
	"github.com/news-portal-api/internal/repository"
	"github.com/news-portal-api/internal/service"
	"github.com/news-portal-api/internal/storage"
	"github.com/news-portal-api/pkg/logger"
)

func main() {
	rollback := flag.Bool("migrate-down", false, "roll back the last migration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(config.LogConfig{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log)
	log.Info().Msg("Starting News Portal API server...")

	if err := policy.ValidatePermissionTable(); err != nil {
		log.Fatal().Err(err).Msg("Invalid role permission table")
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *rollback {
		if err := db.MigrateDown(cfg.Server.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	}
	if err := db.RunMigrations(cfg.Server.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, db.Stats); err != nil {
		log.Warn().Err(err).Msg("Failed to register database pool metrics")
	}

	repos := repository.New(db)
	store := newObjectStore(cfg, log)
	services := service.NewServices(repos, store, cfg, log)

	var limiter api.RateLimiter
	if cfg.RateLimit.Enabled() {
		fw, err := ratelimit.NewFixedWindowLimiter(cfg.RateLimit)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create rate limiter")
		}
		defer fw.Close()
		limiter = fw
		log.Info().
			Int("requests", cfg.RateLimit.Requests).
			Dur("window", cfg.RateLimit.Window).
			Msg("Rate limiting enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, rate limiting disabled")
	}

	router := api.NewRouter(services, cfg, limiter, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// newObjectStore connects to S3-compatible storage, or returns a store that
// rejects uploads when none is configured.
func newObjectStore(cfg *config.Config, log zerolog.Logger) storage.ObjectStore {
	if !cfg.Storage.Enabled() {
		log.Warn().Msg("S3_ENDPOINT not set, media uploads disabled")
		return storage.Noop{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.NewMinio(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to object storage")
	}
	return store
}
