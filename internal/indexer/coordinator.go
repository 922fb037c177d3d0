package indexer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/filescope/internal/logging"
)

// DefaultEventBuffer is the capacity of each session's event channel
const DefaultEventBuffer = 256

// ErrScanInProgress is returned when a scan is requested while one is running
var ErrScanInProgress = errors.New("indexing in progress")

// Coordinator runs at most one scan at a time. Each scan gets its own
// Session with a fresh event channel, so events from two scans never mix.
type Coordinator struct {
	scanner *Scanner
	root    string
	lock    ScanLock
	buffer  int
	logger  *slog.Logger
}

// NewCoordinator creates a coordinator that scans root with scanner
func NewCoordinator(scanner *Scanner, root string, logger *slog.Logger) *Coordinator {
	if root == "" {
		root = "."
	}
	return &Coordinator{
		scanner: scanner,
		root:    root,
		buffer:  DefaultEventBuffer,
		logger:  logging.OrDefault(logger),
	}
}

// Root returns the directory this coordinator scans
func (c *Coordinator) Root() string {
	return c.root
}

// Scanning reports whether a scan is running
func (c *Coordinator) Scanning() bool {
	return c.lock.Held()
}

// Start begins a scan in a new goroutine and returns its session. It returns
// false, and does nothing, when a scan is already running. The lock is
// released before the Done event is sent, so a consumer that has seen Done
// can start the next scan straight away.
func (c *Coordinator) Start(ctx context.Context) (*Session, bool) {
	if !c.lock.TryAcquire() {
		c.logger.Info("scan already in progress, request ignored")
		return nil, false
	}

	events := make(chan ScanEvent, c.buffer)
	session := &Session{
		ID:     uuid.NewString(),
		Events: events,
		done:   make(chan struct{}),
	}

	log := c.logger.With(slog.String("session", session.ID))
	log.Info("scan started", slog.String("root", c.root))

	go func() {
		stats, err := c.scanner.scan(ctx, c.root, events, func() {
			c.lock.Release()
		})
		session.stats, session.err = stats, err
		close(session.done)

		if err == nil {
			log.Info("scan finished",
				slog.Int("files_indexed", stats.FilesIndexed),
				slog.Duration("duration", stats.Duration))
		}
	}()

	return session, true
}

// Session is one running or finished scan
type Session struct {
	ID     string
	Events <-chan ScanEvent

	done  chan struct{}
	stats *Statistics
	err   error
}

// Drain blocks until at least one event is available, then collects every
// further event that is ready without blocking, up to max in total. It
// reports whether the Done event was among them or the channel is closed.
func (s *Session) Drain(max int) ([]ScanEvent, bool) {
	if max <= 0 {
		max = 1
	}

	ev, ok := <-s.Events
	if !ok {
		return nil, true
	}
	batch := []ScanEvent{ev}
	if ev.Done {
		return batch, true
	}

	for len(batch) < max {
		select {
		case ev, ok := <-s.Events:
			if !ok {
				return batch, true
			}
			batch = append(batch, ev)
			if ev.Done {
				return batch, true
			}
		default:
			return batch, false
		}
	}
	return batch, false
}

// Wait blocks until the scan has finished and returns its statistics. The
// session's events must still be consumed for the scan to finish.
func (s *Session) Wait(ctx context.Context) (*Statistics, error) {
	select {
	case <-s.done:
		return s.stats, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
