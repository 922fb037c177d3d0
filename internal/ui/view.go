package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed heights of the right-hand sections, content lines only
const (
	vectorHeight      = 3
	descriptionHeight = 3
	definitionsHeight = 6
	paneChrome        = 3 // border top and bottom plus the title line
)

// layout sizes every pane from the window size
func (m *Model) layout() {
	leftWidth := m.width * 3 / 10
	if leftWidth < 24 {
		leftWidth = 24
	}
	m.leftWidth = leftWidth
	m.rightWidth = m.width - leftWidth - 4 - 4
	if m.rightWidth < 20 {
		m.rightWidth = 20
	}

	// status line and help line
	body := m.height - 2

	// button takes three lines
	m.fileList.SetHeight(body - paneChrome - 3)

	m.vector.SetSize(m.rightWidth, vectorHeight)
	m.description.SetWidth(m.rightWidth)
	m.description.SetHeight(descriptionHeight)
	m.definitions.classes.SetHeight(definitionsHeight)
	m.definitions.functions.SetHeight(definitionsHeight)

	used := 1 + 2 + // path
		vectorHeight + paneChrome +
		descriptionHeight + paneChrome +
		definitionsHeight + paneChrome
	codeHeight := body - used - paneChrome
	if codeHeight < 3 {
		codeHeight = 3
	}
	m.code.SetSize(m.rightWidth, codeHeight)
}

// View renders the UI
func (m *Model) View() string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(focusFiles, "Files", m.fileList.View(m.leftWidth, m.focus == focusFiles), m.leftWidth),
		m.button(),
	)

	half := (m.rightWidth - 4) / 2
	defs := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane(focusClasses, "Classes", m.definitions.classes.View(half, m.focus == focusClasses), half),
		m.pane(focusFunctions, "Functions", m.definitions.functions.View(half, m.focus == focusFunctions), half),
	)

	pathText := m.path.path
	if pathText == "" {
		pathText = mutedStyle.Render("no file selected")
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		paneStyle.Width(m.rightWidth+2).Render(titleStyle.Render("Path ")+truncate(pathText, m.rightWidth-5)),
		m.pane(-1, "Vector", m.vector.viewport.View(), m.rightWidth),
		m.pane(focusDescription, "Description", m.description.View(), m.rightWidth),
		defs,
		m.pane(focusCode, "Code", m.code.viewport.View(), m.rightWidth),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine(), m.helpLine())
}

func (m *Model) pane(f focus, title, content string, width int) string {
	style := paneStyle
	if f == m.focus {
		style = focusedPaneStyle
	}
	return style.Width(width + 2).Render(titleStyle.Render(title) + "\n" + content)
}

func (m *Model) button() string {
	if m.scanning {
		return disabledButtonStyle.Render(m.spinner.View() + " " + ScanningLabel)
	}
	style := buttonStyle
	if m.focus == focusButton {
		style = style.Reverse(true)
	}
	return style.Render(ScanLabel)
}

func (m *Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return mutedStyle.Render(m.status)
}

func (m *Model) helpLine() string {
	keys := []string{"tab focus", "↑/↓ move", "enter select", "s scan", "q quit"}
	return mutedStyle.Render(strings.Join(keys, " • "))
}
