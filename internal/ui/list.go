package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// listPane is a scrolling single-selection list
type listPane struct {
	items     []string
	cursor    int
	offset    int
	height    int
	itemStyle lipgloss.Style
}

func newListPane(style lipgloss.Style) *listPane {
	return &listPane{height: 5, itemStyle: style}
}

func (l *listPane) SetItems(items []string) {
	l.items = items
	l.cursor = 0
	l.offset = 0
}

func (l *listPane) Append(item string) {
	l.items = append(l.items, item)
}

func (l *listPane) Clear() {
	l.SetItems(nil)
}

func (l *listPane) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	l.height = h
	l.clamp()
}

// Selected returns the item under the cursor
func (l *listPane) Selected() (string, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return "", false
	}
	return l.items[l.cursor], true
}

func (l *listPane) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clamp()
}

func (l *listPane) Down() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
	l.clamp()
}

// clamp keeps the cursor inside the visible window
func (l *listPane) clamp() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *listPane) View(width int, focused bool) string {
	lines := make([]string, 0, l.height)
	for i := l.offset; i < len(l.items) && len(lines) < l.height; i++ {
		text := truncate(l.items[i], width)
		switch {
		case i == l.cursor && focused:
			text = cursorStyle.Render(text)
		case i == l.cursor:
			text = l.itemStyle.Bold(true).Render(text)
		default:
			text = l.itemStyle.Render(text)
		}
		lines = append(lines, text)
	}
	for len(lines) < l.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to width cells
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
