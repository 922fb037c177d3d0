package ui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/filescope/pkg/types"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case namesLoadedMsg:
		return m.handleNamesLoaded(msg)

	case scanEventsMsg:
		return m.handleScanEvents(msg)

	case selectionMsg:
		return m.handleSelection(msg)
	}

	return m, nil
}

func (m *Model) handleNamesLoaded(msg namesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("failed to load index", slog.String("error", msg.err.Error()))
		m.setStatus("Could not read the index", true)
		return m, nil
	}
	// A scan may already have added rows; loaded names go first
	loaded := make([]fileItem, 0, len(msg.names)+len(m.files))
	for _, name := range msg.names {
		loaded = append(loaded, fileItem{name: name})
	}
	m.files = append(loaded, m.files...)
	m.syncFileList()
	if len(msg.names) > 0 {
		m.setStatus(fmt.Sprintf("%d files in index", len(msg.names)), false)
	}
	return m, nil
}

func (m *Model) handleScanEvents(msg scanEventsMsg) (tea.Model, tea.Cmd) {
	if m.session == nil || msg.sessionID != m.session.ID {
		return m, nil
	}

	for _, ev := range msg.events {
		if ev.Done {
			if ev.Err != nil {
				m.setStatus("Scan failed: "+ev.Err.Error(), true)
			} else {
				m.setStatus(fmt.Sprintf("Scan complete, %d files indexed", m.scanned), false)
			}
			continue
		}
		m.files = append(m.files, fileItem{name: ev.FileName, path: ev.FilePath})
		m.fileList.Append(ev.FileName)
		m.scanned++
	}

	if msg.done {
		m.scanning = false
		m.session = nil
		return m, nil
	}
	return m, drain(m.session)
}

func (m *Model) handleSelection(msg selectionMsg) (tea.Model, tea.Cmd) {
	if msg.name != m.selecting {
		return m, nil // superseded by a later selection
	}
	m.insp.Show(msg.name, msg.sel, msg.err)
	if msg.err != nil {
		m.setStatus("Could not load "+msg.name, true)
	} else {
		m.setStatus("", false)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	if m.focus == focusDescription {
		if key == "esc" {
			m.setFocus(focusFiles)
			return m, nil
		}
		var cmd tea.Cmd
		m.description, cmd = m.description.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "s":
		return m, m.startScan()
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		if m.focus == focusCode {
			m.code.viewport.HalfViewUp()
		}
	case "pgdown":
		if m.focus == focusCode {
			m.code.viewport.HalfViewDown()
		}
	case "enter":
		return m, m.activate()
	}
	return m, nil
}

func (m *Model) setFocus(f focus) {
	if m.focus == focusDescription && f != focusDescription {
		m.description.Blur()
	}
	m.focus = f
	if f == focusDescription {
		m.description.Focus()
	}
}

func (m *Model) move(delta int) {
	var list *listPane
	switch m.focus {
	case focusFiles:
		list = m.fileList
	case focusClasses:
		list = m.definitions.classes
	case focusFunctions:
		list = m.definitions.functions
	case focusCode:
		if delta < 0 {
			m.code.viewport.LineUp(1)
		} else {
			m.code.viewport.LineDown(1)
		}
		return
	default:
		return
	}
	if delta < 0 {
		list.Up()
	} else {
		list.Down()
	}
}

// activate handles enter on the focused pane
func (m *Model) activate() tea.Cmd {
	switch m.focus {
	case focusButton:
		return m.startScan()
	case focusFiles:
		name, ok := m.fileList.Selected()
		if !ok {
			return nil
		}
		m.selecting = name
		return m.describe(name)
	case focusClasses:
		if name, ok := m.definitions.classes.Selected(); ok {
			m.insp.Jump(types.KindClass, name)
		}
	case focusFunctions:
		if name, ok := m.definitions.functions.Selected(); ok {
			m.insp.Jump(types.KindFunction, name)
		}
	}
	return nil
}

// syncFileList rebuilds the list rows from m.files, keeping the cursor
func (m *Model) syncFileList() {
	names := make([]string, len(m.files))
	for i, f := range m.files {
		names[i] = f.name
	}
	m.fileList.items = names
	if m.fileList.cursor >= len(names) {
		m.fileList.cursor = len(names) - 1
	}
	if m.fileList.cursor < 0 {
		m.fileList.cursor = 0
	}
	m.fileList.clamp()
}
