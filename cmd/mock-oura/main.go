package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianraines/nightowl/internal/mockoura"
	"github.com/brianraines/nightowl/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", ":8081", "Listen address")
		token    = flag.String("token", "", "Bearer token to require; empty accepts any")
		seed     = flag.Int64("seed", 1, "Seed for the synthetic data generator")
		pageSize = flag.Int("page-size", 50, "Records per response page")
	)
	flag.Parse()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := mockoura.NewGenerator(*seed)

	opts := []mockoura.Option{mockoura.WithPageSize(*pageSize)}
	if *token != "" {
		opts = append(opts, mockoura.WithToken(*token))
	}
	api := mockoura.NewServer(gen, opts...)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.Register(ctx, mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "mock API listening",
			logger.String("addr", *addr),
			logger.Int64("seed", *seed),
			logger.Int("pageSize", *pageSize))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down mock API...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "mock API stopped")
}
