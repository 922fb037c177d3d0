package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/filescope/internal/app"
	"github.com/dshills/filescope/internal/config"
	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/mcp"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		// stdout is reserved for the protocol
		fmt.Fprintf(os.Stderr, "filescope-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.FileName)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger.Info("filescope-mcp starting", slog.String("version", version), slog.String("root", cfg.Root))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	server, err := mcp.NewServer(mcp.Options{
		Coordinator: a.Coordinator,
		Store:       a.Store,
		Parser:      a.Parser,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("server stopped")
	return nil
}
