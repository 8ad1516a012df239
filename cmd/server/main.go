// Package main provides the entry point for the konkursant portal HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appConfig "github.com/konkursant/portal/internal/config"
	"github.com/konkursant/portal/internal/database/database"
	"github.com/konkursant/portal/internal/database/migrate"
	"github.com/konkursant/portal/internal/health"
	"github.com/konkursant/portal/internal/middleware"
	projectRouter "github.com/konkursant/portal/internal/project/router"
	reviewRouter "github.com/konkursant/portal/internal/review/router"
	reviewService "github.com/konkursant/portal/internal/review/service"
	statisticsRouter "github.com/konkursant/portal/internal/statistics/router"
	userRepository "github.com/konkursant/portal/internal/user/repository"
	userRouter "github.com/konkursant/portal/internal/user/router"
	pkgLogger "github.com/konkursant/portal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := pkgLogger.NewWithConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts, err := reviewOptions(cfg.Scoring)
	if err != nil {
		return fmt.Errorf("failed to load criterion schemas: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warnw("failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db, migrate.GetMigrationsPath(), logger); err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      newRouter(db, opts, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server starting", "addr", srv.Addr, "schema_version", opts.Schema.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Infow("server stopped")
	return nil
}

// reviewOptions resolves the active criterion schema from the scoring configuration.
func reviewOptions(cfg appConfig.ScoringConfig) (reviewService.Options, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return reviewService.Options{}, err
	}
	schema, err := registry.Schema(cfg.SchemaVersion)
	if err != nil {
		return reviewService.Options{}, err
	}
	return reviewService.Options{
		Registry:             registry,
		Schema:               schema,
		MaxReviewsPerProject: cfg.MaxReviewsPerProject,
	}, nil
}

// newRouter builds the engine: /health is public, everything else requires X-User-ID.
func newRouter(db *gorm.DB, opts reviewService.Options, logger *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))

	r.GET("/health", health.New(db, logger).Check)

	api := r.Group("/", middleware.Identity(userRepository.New(db, logger), logger))
	userRouter.RegisterRoutes(api, db, logger)
	projectRouter.RegisterRoutes(api, db, logger)
	reviewRouter.RegisterRoutes(api, db, opts, logger)
	statisticsRouter.RegisterRoutes(api, db, logger)

	return r
}
