// Package labeledspinner renders a spinner next to a short label.
package labeledspinner

import (
	"github.com/alkime/noteforge/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the loading placeholder shown while a provider call is in flight.
type Model struct {
	Spinner spinner.Model
	Label   string
}

// New creates a labeled spinner.
func New(s spinner.Spinner, label string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Label:   label,
	}
}

// Init returns the first spinner tick.
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (m Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := teaMsg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(tickMsg)

		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	return m.Spinner.View() + " " + style.Subtitle.Render(m.Label)
}
