// Package main runs the rendezvous coordinator: an HTTP service where clients
// that cannot reach each other report presence and relay short commands.
//
// Routes:
//
//	POST    /presence          report presence, returns everyone online
//	GET     /presence          presence snapshot
//	POST    /command           append a command
//	GET     /commands?since=N  commands newer than N (ms)
//	GET     /health            liveness
//	OPTIONS *                  CORS preflight
//
// Configuration (environment, optionally from .env):
//   - PORT: listen port (default: 8080)
//   - HOST: listen host (default: all interfaces)
//   - LOG_LEVEL: DEBUG, INFO, WARN or ERROR (default: INFO)
//   - COMMANDS_ENABLED: false runs presence-only (default: true)
//   - COMMAND_LOG_CAPACITY: retained commands (default: 200)
//   - PRESENCE_TTL: expire presence older than this, 0 keeps forever (default: 0)
//   - PRESENCE_SWEEP_INTERVAL: reaper period (default: 30s)
//   - MAX_BODY_BYTES: request body limit (default: 1 MiB)
//   - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 5s)
//
// Example usage:
//
//	PORT=8080 ./coordinator
//
//	curl -X POST localhost:8080/presence -d '{"userId":"1","username":"alice","contextId":"lobby"}'
//	curl -X POST localhost:8080/command -d '{"username":"alice","command":"move forward"}'
//	curl 'localhost:8080/commands?since=0'
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

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/dreamware/rendezvous/internal/coordinator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	coord, err := coordinator.New(log, coordinator.Options{
		Clock:              time.Now,
		CommandLogCapacity: cfg.CommandLogCapacity,
		PresenceTTL:        cfg.PresenceTTL,
		CommandsEnabled:    cfg.CommandsEnabled,
	})
	if err != nil {
		return fmt.Errorf("coordinator setup failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PresenceTTL > 0 {
		reaper := coordinator.NewReaper(coord, cfg.PresenceSweepInterval, log)
		reaper.Start(ctx)
		defer reaper.Stop()
	}

	srv := newServer(coord, log, cfg.MaxBodyBytes)
	httpSrv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("coordinator listening",
			"address", cfg.Address(),
			"commands_enabled", cfg.CommandsEnabled,
			"command_log_capacity", cfg.CommandLogCapacity,
			"presence_ttl", cfg.PresenceTTL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("coordinator stopped")
	return nil
}
