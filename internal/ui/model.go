package ui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/filescope/internal/indexer"
	"github.com/dshills/filescope/internal/inspector"
	"github.com/dshills/filescope/internal/logging"
	"github.com/dshills/filescope/internal/parser"
	"github.com/dshills/filescope/internal/storage"
)

// Button labels
const (
	ScanLabel     = "Scan Directories and Index"
	ScanningLabel = "Scanning..."
)

// drainMax bounds how many scan events one UI update applies
const drainMax = 256

// focus identifies the pane receiving keys
type focus int

const (
	focusFiles focus = iota
	focusButton
	focusDescription
	focusClasses
	focusFunctions
	focusCode
	focusCount
)

// Options wires the UI to the rest of the program
type Options struct {
	Coordinator *indexer.Coordinator
	Store       storage.Storage
	Parser      *parser.Parser
	Logger      *slog.Logger
}

// fileItem is one row of the file list
type fileItem struct {
	name string
	path string
}

// Model is the bubbletea model for the file browser
type Model struct {
	ctx    context.Context
	coord  *indexer.Coordinator
	store  storage.Storage
	insp   *inspector.Inspector
	logger *slog.Logger

	files       []fileItem
	fileList    *listPane
	path        *pathPane
	vector      *vectorPane
	definitions *definitionsPane
	code        *codePane
	description textarea.Model
	spinner     spinner.Model

	focus     focus
	session   *indexer.Session
	scanning  bool
	scanned   int
	selecting string
	status    string
	statusErr bool

	width      int
	height     int
	leftWidth  int
	rightWidth int
}

// New creates the UI model. ctx bounds scans and lookups started from the UI.
func New(ctx context.Context, opts Options) *Model {
	logger := logging.OrDefault(opts.Logger)

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.ShowLineNumbers = false
	desc.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:         ctx,
		coord:       opts.Coordinator,
		store:       opts.Store,
		logger:      logger,
		fileList:    newListPane(lipgloss.NewStyle()),
		path:        &pathPane{},
		vector:      newVectorPane(),
		definitions: newDefinitionsPane(),
		code:        newCodePane(),
		description: desc,
		spinner:     sp,
		width:       100,
		height:      32,
	}

	m.insp = inspector.New(opts.Store, opts.Parser, inspector.Views{
		Path:        m.path,
		Vector:      m.vector,
		Definitions: m.definitions,
		Code:        m.code,
	}, logger)

	m.layout()
	return m
}

// Init loads the names already in the index
func (m *Model) Init() tea.Cmd {
	return m.loadNames()
}

func (m *Model) loadNames() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		names, err := store.ListNames(ctx)
		return namesLoadedMsg{names: names, err: err}
	}
}

// drain receives the next events of a scan session
func drain(session *indexer.Session) tea.Cmd {
	return func() tea.Msg {
		events, done := session.Drain(drainMax)
		return scanEventsMsg{sessionID: session.ID, events: events, done: done}
	}
}

// describe looks up and parses name off the UI goroutine
func (m *Model) describe(name string) tea.Cmd {
	insp, ctx := m.insp, m.ctx
	return func() tea.Msg {
		sel, err := insp.Describe(ctx, name)
		return selectionMsg{name: name, sel: sel, err: err}
	}
}

// startScan begins a scan unless one is running
func (m *Model) startScan() tea.Cmd {
	if m.scanning || m.coord == nil {
		return nil
	}
	session, ok := m.coord.Start(m.ctx)
	if !ok {
		return nil
	}

	m.scanning = true
	m.scanned = 0
	m.session = session
	m.setStatus("Scanning "+m.coord.Root(), false)
	return tea.Batch(m.spinner.Tick, drain(session))
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// Scanning reports whether the UI is consuming a scan
func (m *Model) Scanning() bool {
	return m.scanning
}
