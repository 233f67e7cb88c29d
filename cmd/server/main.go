// Package main provides the entry point for the HTTP server.
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

	appConfig "github.com/festy23/memberquery/internal/config"
	dbConfig "github.com/festy23/memberquery/internal/database/config"
	"github.com/festy23/memberquery/internal/database/database"
	"github.com/festy23/memberquery/internal/database/migrate"
	"github.com/festy23/memberquery/internal/health"
	memberRouter "github.com/festy23/memberquery/internal/member/router"
	"github.com/festy23/memberquery/internal/middleware"
	teamRouter "github.com/festy23/memberquery/internal/team/router"
	"github.com/festy23/memberquery/pkg/logger"
)

func main() {
	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sugar, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sugar); err != nil {
		sugar.Errorw("server stopped with error", "error", err)
		_ = sugar.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig.Config, sugar *zap.SugaredLogger) error {
	dbCfg := dbConfig.LoadConfigFromEnv()
	db, err := database.NewWithConfig(dbCfg, sugar)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			sugar.Warnw("failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db, dbCfg.Driver); err != nil {
		return err
	}
	sugar.Infow("migrations applied", "driver", dbCfg.Driver)

	members := memberRouter.NewService(db, sugar)
	if cfg.SampleData.Enabled {
		if err := members.Seed(ctx, cfg.SampleData.Size); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      newEngine(cfg.GinMode, db, dbCfg.Driver, sugar),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("starting server", "address", srv.Addr, "gin_mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sugar.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

func newEngine(mode string, db *gorm.DB, driver string, sugar *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(sugar), middleware.Recovery(sugar))

	health.New(db, driver, sugar).RegisterRoutes(r)
	memberRouter.RegisterRoutes(r, memberRouter.NewService(db, sugar), sugar)
	teamRouter.RegisterRoutes(r, db, sugar)

	return r
}
