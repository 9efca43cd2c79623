// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// Variable names omit a "Style" suffix since they're accessed via the
// package (style.Title reads better than style.TitleStyle).
var (
	// Title is used for the app header and panel titles.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Panel frames a note panel.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key highlights keyboard keys inside help text.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Progress colors the level meter.
	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Recording marks an active recording.
	Recording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// Muted is used for de-emphasized text (empty placeholders, paths).
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// ActiveTab and Tab render the capture source selector.
	ActiveTab = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)
	Tab = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 1)
)
