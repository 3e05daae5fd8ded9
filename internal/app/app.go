// Package app holds the process bootstrap shared by the service binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Clark-Hu/hotel-rating-services/internal/config"
	httpserver "github.com/Clark-Hu/hotel-rating-services/internal/http"
	"github.com/Clark-Hu/hotel-rating-services/internal/store"
)

// MountFunc returns the routes a binary serves on top of its store.
type MountFunc func(st *store.Store, logger *log.Logger) ([]httpserver.Option, error)

// NewLogger returns the process logger, prefixed with the service name.
func NewLogger(service string) *log.Logger {
	return log.New(os.Stdout, "["+service+"] ", log.LstdFlags|log.Lshortfile)
}

// StoreOptions translates the DB_* settings into pool options.
func StoreOptions(cfg config.Config, logger *log.Logger) store.Options {
	return store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}
}

// Run opens the store, applies migrations when DB_AUTO_MIGRATE is set, and
// serves the mounted routes until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger, mount MountFunc) error {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, StoreOptions(cfg, logger))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	if cfg.DBAutoMigrate {
		if err := st.Migrate(dbCtx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	opts, err := mount(st, logger)
	if err != nil {
		return err
	}
	server := httpserver.New(cfg, st, logger, opts...)
	logger.Printf("listening on :%s", cfg.Port)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	var runErr error
	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("graceful shutdown error: %v", err)
	}
	return runErr
}
