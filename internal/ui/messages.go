package ui

import (
	"github.com/dshills/filescope/internal/indexer"
	"github.com/dshills/filescope/internal/inspector"
)

// namesLoadedMsg carries the file names already in the index at startup
type namesLoadedMsg struct {
	names []string
	err   error
}

// scanEventsMsg carries one drained batch of a scan session's events
type scanEventsMsg struct {
	sessionID string
	events    []indexer.ScanEvent
	done      bool
}

// selectionMsg carries the result of looking up and parsing a selected file
type selectionMsg struct {
	name string
	sel  *inspector.Selection
	err  error
}
