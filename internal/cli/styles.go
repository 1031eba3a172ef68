package cli

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	accent  = lipgloss.Color("#7C3AED") // Purple
	success = lipgloss.Color("#10B981") // Green
	muted   = lipgloss.Color("#6B7280") // Gray
	failure = lipgloss.Color("#EF4444") // Red

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	successStyle = lipgloss.NewStyle().
			Foreground(success).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(failure).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	borderStyle = lipgloss.NewStyle().
			Foreground(muted)
)
