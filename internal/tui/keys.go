package tui

import (
	"strings"

	"github.com/alkime/noteforge/internal/tui/style"
	"github.com/alkime/noteforge/pkg/collections"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the app's key bindings.
type KeyMap struct {
	SwitchTab         key.Binding
	Submit            key.Binding
	Toggle            key.Binding
	CopyTranscription key.Binding
	CopySummary       key.Binding
	Export            key.Binding
	Quit              key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		SwitchTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch source"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "process file"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "start/stop recording"),
		),
		CopyTranscription: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "copy transcription"),
		),
		CopySummary: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "copy summary"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// renderKeyHelp lists the enabled bindings as "[key] desc" hints.
func renderKeyHelp(bindings ...key.Binding) string {
	enabled := collections.Filter(bindings, key.Binding.Enabled)

	return strings.Join(collections.Apply(enabled, func(b key.Binding) string {
		return style.Help.Render("[") + style.Key.Render(b.Help().Key) +
			style.Help.Render("] "+b.Help().Desc)
	}), " ")
}
