package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/leofalp/askgpt/internal/server"
)

const shutdownTimeout = 15 * time.Second

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	a, err := newApp("serve", args, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}

	srv := server.New(a.session,
		server.WithAddr(a.cfg.ListenAddr),
		server.WithLogger(a.logger),
		server.WithRequestTimeout(a.cfg.RequestTimeout),
	)

	a.logger.Info("starting askgpt",
		"listen", a.cfg.ListenAddr,
		"base_url", a.cfg.BaseURL,
		"model", a.cfg.Model,
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			a.logger.Error("shutdown error", "error", err)
			return 1
		}
	case err := <-serveErr:
		a.logger.Error("server error", "error", err)
		return 1
	}

	a.logger.Info("server stopped")
	return 0
}
