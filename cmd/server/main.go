package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tsanfield/stackpot-backend/internal/config"
	"github.com/tsanfield/stackpot-backend/internal/game"
	"github.com/tsanfield/stackpot-backend/internal/httpapi"
	"github.com/tsanfield/stackpot-backend/internal/logger"
	"github.com/tsanfield/stackpot-backend/internal/registry"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer func() { _ = logger.Log.Sync() }()

	cfg := config.FromEnv()

	reg := registry.New(game.Config{
		TickInterval: cfg.TickInterval,
		PoolCapacity: cfg.PoolCapacity,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(reg),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Infow("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warnw("shutdown incomplete", "err", err)
	}
}
