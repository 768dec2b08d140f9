// Package tui provides a bubbletea + lipgloss terminal UI for browsing the
// catalog and managing the cart.
package tui

import "github.com/charmbracelet/lipgloss"

// defaultAccentColor is the default accent color (amber).
const defaultAccentColor = "#FF9900"

var (
	colorWhite = lipgloss.Color("#FAFAFA")
	colorGray  = lipgloss.Color("#888888")
	colorGreen = lipgloss.Color("#6BCB77")
	colorRed   = lipgloss.Color("#FF6B6B")
)

// Styles used across the TUI. Accent-dependent styles live on Theme.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)
