// Package waveform renders a scrolling input level meter for an active recording.
package waveform

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/noteforge/internal/tui/style"
	"github.com/alkime/noteforge/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

// bars holds the eighth-block glyphs, index 0 is blank.
var bars = []rune(" ▁▂▃▄▅▆▇█")

const (
	steps     = 8
	fullScale = float64(math.MaxInt16)
	frame     = 50 * time.Millisecond
)

// TickMsg triggers a redraw.
type TickMsg struct{}

// Model draws the samples from a Levels source as columns, oldest on the left.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
}

// New creates a meter width columns wide and height rows tall.
func New(levels uictl.Levels[int16], width, height int) Model {
	return Model{
		levels: levels,
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// SetWidth resizes the meter.
func (m Model) SetWidth(width int) Model {
	m.width = max(width, 1)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	var samples []int16
	if m.levels != nil {
		samples = m.levels.Read()
	}

	if len(samples) == 0 {
		return m.baseline()
	}

	heights := m.columns(samples)
	rows := make([]string, m.height)

	for row := range m.height {
		floor := (m.height - 1 - row) * steps

		var sb strings.Builder
		for _, h := range heights {
			sb.WriteRune(bars[min(max(h-floor, 0), steps)])
		}

		rows[row] = style.Progress.Render(sb.String())
	}

	return strings.Join(rows, "\n")
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(frame, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// columns splits samples into one bucket per column and maps each bucket's
// peak onto 0..height*steps. A square root curve keeps quiet speech visible.
func (m Model) columns(samples []int16) []int {
	out := make([]int, m.width)
	size := max(1, len(samples)/m.width)
	top := float64(m.height * steps)

	for col := range out {
		start := col * size
		if start >= len(samples) {
			break
		}

		p := peak(samples[start:min(start+size, len(samples))])
		out[col] = min(int(math.Sqrt(p/fullScale)*top), int(top))
	}

	return out
}

func (m Model) baseline() string {
	blank := strings.Repeat(" ", m.width)
	rows := make([]string, m.height)

	for i := range rows {
		rows[i] = blank
	}

	rows[m.height-1] = strings.Repeat(string(bars[1]), m.width)

	return style.Muted.Render(strings.Join(rows, "\n"))
}

func peak(samples []int16) float64 {
	var p float64

	for _, s := range samples {
		p = max(p, math.Abs(float64(s)))
	}

	return min(p, fullScale)
}
