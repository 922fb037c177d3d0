package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/filescope/internal/app"
	"github.com/dshills/filescope/internal/config"
	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/ui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "filescope: %v\n", err)
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
	logger.Info("filescope starting", slog.String("version", version), slog.String("root", cfg.Root))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The model must load before the UI appears
	a, err := app.Open(sigCtx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	model := ui.New(ctx, ui.Options{
		Coordinator: a.Coordinator,
		Store:       a.Store,
		Parser:      a.Parser,
		Logger:      logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("ui stopped", slog.String("error", err.Error()))
		return err
	}
	logger.Info("filescope stopped")
	return nil
}
