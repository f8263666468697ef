// Package main is the entry point for the frontuser API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontuser/internal/app"
	"frontuser/internal/config"
	v1 "frontuser/internal/infrastructure/http/v1"
	"frontuser/internal/infrastructure/http/v1/handlers"
	"frontuser/internal/infrastructure/metrics"
	"frontuser/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $"+config.EnvConfigPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting frontuser server", "env", cfg.App.Env)

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer application.Close()

	appMetrics := metrics.New()
	appMetrics.ObservePool(application.Infra.Pool.Stats)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		AuthService:  application.AuthService,
		PartyService: application.PartyService,
		Metrics:      appMetrics,
		HealthChecks: application.Infra.HealthChecks(),
		SessionCookie: handlers.CookieConfig{
			Name:   cfg.Auth.SessionCookie,
			Secure: !cfg.App.IsDevelopment(),
		},
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	application.Infra.Pool.LogStats(ctx)

	log.Info("server stopped")
}
