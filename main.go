package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctrack/config"
	"doctrack/config/database"
	"doctrack/pkg/logger"
	"doctrack/pkg/metrics"
	"doctrack/pkg/session"
	"doctrack/router"
	"doctrack/socket"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, loaded, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}
	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	if !loaded {
		logger.Log.Info("No .env file found, using environment variables from OS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Could not open entity store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer backend.Close()
	logger.Log.Info("Entity store ready", zap.String("driver", cfg.StoreDriver))

	m := metrics.New()
	opts := router.Options{
		Backend:        backend,
		EnforceSession: cfg.EnforceSession,
		CORSOrigin:     cfg.CORSOrigin,
		Metrics:        m,
	}
	if cfg.SessionSecret != "" {
		opts.Sessions = session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	}
	if cfg.EventsEnabled {
		hub := socket.NewHub()
		hub.OnDrop = m.EventsDropped.Inc
		go hub.Run(ctx)
		opts.Hub = hub
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.Setup(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Info("Backend listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
