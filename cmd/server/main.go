// SmartBag - Quick-Commerce Marketplace Backend
// Copyright 2026 SmartBag Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smartbag/smartbag

// Command server runs the SmartBag admin console backend: a websocket push
// channel for the admin dashboard backed by MongoDB and an external media host.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartbag/smartbag/internal/api"
	"github.com/smartbag/smartbag/internal/auth"
	"github.com/smartbag/smartbag/internal/config"
	"github.com/smartbag/smartbag/internal/console"
	"github.com/smartbag/smartbag/internal/logging"
	"github.com/smartbag/smartbag/internal/media"
	"github.com/smartbag/smartbag/internal/store"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.New(ctx, &cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("failed to close mongodb connection")
		}
	}()

	if err := db.SeedAdmin(ctx, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
		return err
	}

	jwt, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}

	uploader := media.NewClient(&cfg.Media)

	registry := console.NewRegistry()
	broadcaster := console.NewBroadcaster(registry)
	handlers := console.NewHandlers(db, uploader, broadcaster)
	dispatcher := console.NewDispatcher(registry, broadcaster, handlers)
	gate := console.NewGate(registry, broadcaster, dispatcher, db, jwt, cfg.Server.CORSOrigins)

	router := api.NewRouter(&cfg.Server, gate, db)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("admin console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
