package storage

import (
	"context"
)

// Storage defines the interface for persisting and querying indexed files
type Storage interface {
	// Schema operations
	EnsureSchema(ctx context.Context) error

	// Write operations
	AppendBatch(ctx context.Context, rows []IndexedFile) error

	// Read operations
	FindByName(ctx context.Context, fileName string) (*IndexedFile, error)
	CountByName(ctx context.Context, fileName string) (int, error)
	Count(ctx context.Context) (int, error)
	ListNames(ctx context.Context) ([]string, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// IndexedFile is one row of the index: a file's name, the path it was found
// at, and the embedding of its name. Rows are append-only; a re-scan adds a
// second row for the same file.
type IndexedFile struct {
	ID       int64
	FileName string
	FilePath string
	Vector   []float32
}
