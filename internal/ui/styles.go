package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6C7086"}
	colorText    = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	colorError   = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	colorClasses = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#45475A"}
	colorFuncs   = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#4D3F1A"}
	colorJump    = lipgloss.AdaptiveColor{Light: "#FDE68A", Dark: "#F9E2AF"}
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(colorAccent)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Reverse(true)

	classItemStyle = lipgloss.NewStyle().
			Background(colorClasses)

	funcItemStyle = lipgloss.NewStyle().
			Background(colorFuncs)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorAccent).
			Foreground(colorAccent).
			Padding(0, 1)

	disabledButtonStyle = buttonStyle.
				BorderForeground(colorMuted).
				Foreground(colorMuted)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(5).
			Align(lipgloss.Right).
			MarginRight(1)

	jumpLineStyle = lipgloss.NewStyle().
			Background(colorJump).
			Foreground(lipgloss.Color("#000000"))
)
