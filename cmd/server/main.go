// Package main initializes and starts the CardMaster HTTP server,
// setting up configuration, logging, the storage backend, the application
// state, handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/cardmaster/internal/config"
	"github.com/atinyakov/cardmaster/internal/db"
	"github.com/atinyakov/cardmaster/internal/logger"
	"github.com/atinyakov/cardmaster/internal/server/handler/http"
	"github.com/atinyakov/cardmaster/internal/service"
	"github.com/atinyakov/cardmaster/internal/session"
	"github.com/atinyakov/cardmaster/internal/storage"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the configured storage backend.
	store, closeStore, err := storage.Open(ctx, options)
	if err != nil {
		zapLogger.Fatal("cannot open storage", zap.String("backend", options.Storage), zap.Error(err))
	}
	defer closeStore()

	// Keep point-in-time copies of the PostgreSQL state table.
	if pg, ok := store.(*storage.Postgres); ok {
		db.StartSnapshotter(ctx, pg.DB,
			time.Duration(options.SnapshotIntervalMinutes)*time.Minute,
			time.Duration(options.SnapshotRetentionHours)*time.Hour,
			zapLogger,
		)
	}

	// Load the application state.
	var stateOpts []service.Option
	if options.HashPasswords {
		stateOpts = append(stateOpts, service.WithPasswordHashing(bcrypt.DefaultCost))
	}
	state, err := service.Open(ctx, store, zapLogger, stateOpts...)
	if err != nil {
		zapLogger.Fatal("cannot load state", zap.Error(err))
	}

	// Build the router with middleware and routes.
	tokens := session.NewIssuer(options.JWTSecret, time.Duration(options.TokenTTLHours)*time.Hour)
	router := http.NewRouter(http.NewHandlers(state, tokens), tokens, state, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSCert != "" && options.TLSKey != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port), zap.String("storage", options.Storage))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port), zap.String("storage", options.Storage))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
