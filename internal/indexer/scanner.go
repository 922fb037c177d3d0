package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/filescope/internal/embedder"
	"github.com/dshills/filescope/internal/ignore"
	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/storage"
)

// DefaultBatchSize is the number of files embedded and committed together
const DefaultBatchSize = 100

// ScanEvent reports one discovered file, or the end of a scan when Done is set.
// Every scan ends with exactly one Done event, after which the channel is closed.
type ScanEvent struct {
	FilePath string
	FileName string

	Done bool
	Err  error // Set on the Done event when the scan aborted
}

// Statistics contains statistics about one scan
type Statistics struct {
	FilesIndexed int
	DirsPruned   int
	Batches      int
	Duration     time.Duration
}

// Config contains configuration for the scanner
type Config struct {
	BatchSize int          // Files per embed/commit batch (default: 100)
	Logger    *slog.Logger // Defaults to slog.Default()
}

// Scanner walks a directory tree and appends every retained file to the index
type Scanner struct {
	policy    *ignore.Policy
	embedder  embedder.Embedder
	storage   storage.Storage
	batchSize int
	logger    *slog.Logger
}

// NewScanner creates a scanner. A nil policy applies the built-in rules only.
func NewScanner(store storage.Storage, emb embedder.Embedder, policy *ignore.Policy, config *Config) *Scanner {
	if config == nil {
		config = &Config{}
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > embedder.MaxBatchSize {
		batchSize = embedder.MaxBatchSize
	}
	if policy == nil {
		policy = &ignore.Policy{}
	}

	return &Scanner{
		policy:    policy,
		embedder:  emb,
		storage:   store,
		batchSize: batchSize,
		logger:    logging.OrDefault(config.Logger),
	}
}

// pendingFile is a discovered file waiting for its batch to flush
type pendingFile struct {
	name string
	path string
}

// Scan walks root depth-first, sends one event per retained file as soon as
// it is found, and persists files in batches. Any error stops the walk. The
// final Done event is always sent and events is closed, even on error.
// events may be nil.
func (s *Scanner) Scan(ctx context.Context, root string, events chan<- ScanEvent) (*Statistics, error) {
	return s.scan(ctx, root, events, nil)
}

// scan is Scan with a hook that runs after the walk ends but before the
// Done event is sent.
func (s *Scanner) scan(ctx context.Context, root string, events chan<- ScanEvent, beforeDone func()) (stats *Statistics, err error) {
	start := time.Now()
	stats = &Statistics{}

	defer func() {
		stats.Duration = time.Since(start)
		if err != nil {
			s.logger.Error("scan aborted",
				slog.String("root", root),
				slog.Int("files_indexed", stats.FilesIndexed),
				slog.String("error", err.Error()))
		}
		if beforeDone != nil {
			beforeDone()
		}
		if events != nil {
			sendDone(ctx, events, ScanEvent{Done: true, Err: err})
			close(events)
		}
	}()

	var pending []pendingFile
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := s.flush(ctx, pending); err != nil {
			return err
		}
		stats.FilesIndexed += len(pending)
		stats.Batches++
		pending = pending[:0]
		return nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk %s: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.policy.ShouldIgnoreDir(path) {
				stats.DirsPruned++
				return fs.SkipDir
			}
			return nil
		}

		if s.policy.ShouldIgnoreFile(path) {
			return nil
		}

		file := pendingFile{name: d.Name(), path: storedPath(root, path)}
		if events != nil {
			select {
			case events <- ScanEvent{FilePath: file.path, FileName: file.name}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		pending = append(pending, file)
		if len(pending) >= s.batchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		return stats, err
	}

	s.logger.Info("scan complete",
		slog.String("root", root),
		slog.Int("files_indexed", stats.FilesIndexed),
		slog.Int("batches", stats.Batches),
		slog.Duration("duration", time.Since(start)))
	return stats, nil
}

// sendDone delivers the terminal event unless the buffer is full and ctx is
// already cancelled, in which case nobody is left to drain it.
func sendDone(ctx context.Context, events chan<- ScanEvent, ev ScanEvent) {
	select {
	case events <- ev:
		return
	default:
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// flush embeds the file names of one batch and commits the rows together
func (s *Scanner) flush(ctx context.Context, batch []pendingFile) error {
	texts := make([]string, len(batch))
	for i, f := range batch {
		texts[i] = f.name
	}

	resp, err := s.embedder.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts})
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(batch) {
		return fmt.Errorf("embed batch: got %d embeddings for %d files", len(resp.Embeddings), len(batch))
	}

	dim := s.embedder.Dimension()
	rows := make([]storage.IndexedFile, len(batch))
	for i, f := range batch {
		vector := resp.Embeddings[i].Vector
		if dim > 0 && len(vector) != dim {
			return fmt.Errorf("embed %s: %w: got %d values, want %d",
				f.name, embedder.ErrDimensionMismatch, len(vector), dim)
		}
		rows[i] = storage.IndexedFile{
			FileName: f.name,
			FilePath: f.path,
			Vector:   vector,
		}
	}

	if err := s.storage.AppendBatch(ctx, rows); err != nil {
		return fmt.Errorf("persist batch: %w", err)
	}

	s.logger.Debug("batch committed", slog.Int("files", len(rows)))
	return nil
}

// storedPath keeps the "./" prefix of a dot-relative root, which the walk
// cleans away when joining names.
func storedPath(root, path string) string {
	prefix := "." + string(filepath.Separator)
	if root != "." && !strings.HasPrefix(root, prefix) {
		return path
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, prefix) {
		return path
	}
	return prefix + path
}
