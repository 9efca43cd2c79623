// Package notepanel renders one of the result panels (transcription or summary).
package notepanel

import (
	"strings"

	"github.com/alkime/noteforge/internal/display"
	"github.com/alkime/noteforge/internal/tui/components/labeledspinner"
	"github.com/alkime/noteforge/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model wraps a display.Panel with a loading spinner and a copy hint.
type Model struct {
	panel   display.Panel
	spinner labeledspinner.Model
	copyKey string
	width   int
}

// New creates an empty panel. copyKey is shown in the title when the panel
// has something to copy.
func New(title, copyKey string) Model {
	return Model{
		panel:   display.Panel{Title: title},
		spinner: labeledspinner.New(spinner.Dot, display.LoadingText),
		copyKey: copyKey,
		width:   60,
	}
}

// SetPanel replaces the rendered view-model.
func (m Model) SetPanel(p display.Panel) Model {
	m.panel = p
	return m
}

// SetWidth sets the outer width including the border.
func (m Model) SetWidth(width int) Model {
	m.width = max(width, 20)
	return m
}

func (m Model) Panel() display.Panel { return m.panel }

func (m Model) Init() tea.Cmd {
	return m.spinner.Init()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m Model) View() string {
	header := style.Title.Render(m.panel.Title)
	if m.panel.CanCopy() && m.copyKey != "" {
		header += "  " + style.Help.Render(m.copyKey+" copy")
	}

	// border and padding take four columns
	inner := m.width - 4

	var body string
	switch m.panel.Mode() {
	case display.ModeLoading:
		body = m.spinner.View()
	case display.ModeContent:
		body = lipgloss.NewStyle().Width(inner).Render(strings.TrimSpace(m.panel.Body()))
	case display.ModeError:
		body = style.Error.Width(inner).Render(m.panel.Body())
	default:
		body = style.Muted.Render(m.panel.Body())
	}

	return style.Panel.Width(m.width - 2).Render(header + "\n\n" + body)
}
