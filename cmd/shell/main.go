// Package main runs the interactive CardMaster console against the
// configured storage backend.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/cardmaster/internal/config"
	"github.com/atinyakov/cardmaster/internal/logger"
	"github.com/atinyakov/cardmaster/internal/service"
	"github.com/atinyakov/cardmaster/internal/shell"
	"github.com/atinyakov/cardmaster/internal/storage"
)

var (
	version   string
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("CardMaster shell\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	// The console prints to stdout; logs only carry errors.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("error"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, closeStore, err := storage.Open(ctx, options)
	if err != nil {
		zapLogger.Fatal("cannot open storage", zap.String("backend", options.Storage), zap.Error(err))
	}
	defer closeStore()

	var stateOpts []service.Option
	if options.HashPasswords {
		stateOpts = append(stateOpts, service.WithPasswordHashing(bcrypt.DefaultCost))
	}
	state, err := service.Open(ctx, store, zapLogger, stateOpts...)
	if err != nil {
		zapLogger.Fatal("cannot load state", zap.Error(err))
	}

	if err := shell.New(state, os.Stdin, os.Stdout).Run(ctx); err != nil {
		if errors.Is(err, shell.ErrLoginFailed) {
			fmt.Println("Bye")
			os.Exit(1)
		}
		zapLogger.Fatal("shell failed", zap.Error(err))
	}
}
