package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#B45309")
	colorSuccess = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	styleRow = lipgloss.NewStyle()

	styleRowCursor = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#FFFFFF"))

	styleNew = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	stylePending = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleAlert = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorDanger).
			Padding(0, 1)

	styleNotice = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted)
)
