// Package app wires the configured components together for the entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/filescope/internal/config"
	"github.com/dshills/filescope/internal/embedder"
	"github.com/dshills/filescope/internal/ignore"
	"github.com/dshills/filescope/internal/indexer"
	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/parser"
	"github.com/dshills/filescope/internal/storage"
)

// App holds the long-lived components shared by the UI and the tool server
type App struct {
	Config      *config.Config
	Store       storage.Storage
	Embedder    embedder.Embedder
	Coordinator *indexer.Coordinator
	Parser      *parser.Parser
	Logger      *slog.Logger
}

// Open loads the embedding model, fails if it cannot produce a vector, then
// opens the index and builds the scanner.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger = logging.OrDefault(logger)

	emb, err := embedder.Open(ctx, embedder.Config{
		Provider:  cfg.Embedder.Provider,
		Model:     cfg.Embedder.Model,
		APIKey:    cfg.Embedder.APIKey,
		BaseURL:   cfg.Embedder.BaseURL,
		CacheSize: cfg.Embedder.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding model: %w", err)
	}
	logger.Info("embedding model ready",
		slog.String("provider", emb.Provider()),
		slog.String("model", emb.Model()),
		slog.Int("dimension", emb.Dimension()))

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		_ = emb.Close()
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	schema, err := store.SchemaVersion(ctx)
	if err != nil {
		_ = store.Close()
		_ = emb.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("index opened",
		slog.String("path", cfg.DBPath),
		slog.String("schema", schema),
		slog.String("driver", storage.DriverName),
		slog.String("build_mode", storage.BuildMode))

	policy := ignore.New(ignore.Options{
		RootDir:          cfg.Root,
		Exclude:          cfg.Ignore.Exclude,
		RespectGitignore: cfg.Ignore.RespectGitignore,
	})
	scanner := indexer.NewScanner(store, emb, policy, &indexer.Config{
		BatchSize: cfg.BatchSize,
		Logger:    logger,
	})

	return &App{
		Config:      cfg,
		Store:       store,
		Embedder:    emb,
		Coordinator: indexer.NewCoordinator(scanner, cfg.Root, logger),
		Parser:      parser.New(logger),
		Logger:      logger,
	}, nil
}

// Close releases the index and the embedder
func (a *App) Close() error {
	if a.Coordinator.Scanning() {
		a.Logger.Warn("closing while a scan is running; unflushed files are lost")
	}
	return errors.Join(a.Store.Close(), a.Embedder.Close())
}
