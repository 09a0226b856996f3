package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mess-app-go/internal/app"
	"mess-app-go/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logger.NewFromEnv()
	os.Exit(run(log))
}

func run(log logger.Logger) int {
	log.Info("mess-app: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(log)
	if err != nil {
		log.Critical("mess-app: init failed", "err", err)
		return 1
	}

	srv := application.HTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info("mess-app: shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		code = 1
	}
	if err := application.Close(); err != nil {
		log.Error("mess-app: close failed", "err", err)
		code = 1
	}

	if code == 0 {
		log.Info("mess-app: stopped")
	}
	return code
}
