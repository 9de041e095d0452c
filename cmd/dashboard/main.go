package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/property-dashboard/internal/auth"
	"github.com/example/property-dashboard/internal/config"
	"github.com/example/property-dashboard/internal/httpapi"
	"github.com/example/property-dashboard/internal/notify"
	"github.com/example/property-dashboard/internal/property"
	"github.com/example/property-dashboard/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	notifier := notify.Slog(logger)

	issuer := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL, time.Now)
	credentials, err := auth.NewMockCredentialStore(issuer, cfg.MockLatency, time.Now)
	if err != nil {
		logger.Error("failed to seed credential store", "error", err)
		os.Exit(1)
	}

	sessions := auth.NewSessionContainerWithLogger(credentials, store, notifier, nil, time.Now, logger)
	defer sessions.Close()
	sessions.Restore(ctx)

	dashboard := property.NewContainer(store, notifier, cfg.DebounceWindow, logger)
	// Pending snapshot writes must land before the store closes.
	defer func() {
		dashboard.Flush()
		dashboard.Close()
	}()
	dashboard.Load(ctx)

	authHandler := httpapi.NewAuthHandler(sessions, credentials, logger)
	propertyHandler := httpapi.NewPropertyHandler(dashboard, logger)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Auth:     authHandler,
		Property: propertyHandler,
		Session:  httpapi.RequireSession(sessions, logger),
		Middleware: []func(http.Handler) http.Handler{
			httpapi.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("dashboard API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
