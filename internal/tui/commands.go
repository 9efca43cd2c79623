package tui

import (
	"errors"
	"strings"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/display"
	"github.com/alkime/noteforge/internal/export"
	"github.com/alkime/noteforge/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoRecorder = errors.New("no recording device configured")

func waitForEvent(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}

		return eventMsg(ev)
	}
}

// submitFile reads the path in the input and hands it to the pipeline.
func (m *Model) submitFile() tea.Cmd {
	if m.captureBlocked() {
		return nil
	}

	path := strings.TrimSpace(m.path.Value())
	if path == "" {
		return nil
	}

	return func() tea.Msg {
		payload, err := capture.FromFile(path)
		if err != nil {
			return captureFailedMsg{notice: display.NoticeFileReadError, err: err}
		}

		return m.submitPayload(payload, display.NoticeFileReadError)
	}
}

// submit hands a payload to the pipeline, raising onReject if it is refused.
func (m *Model) submit(payload capture.Payload, onReject display.Notice) tea.Cmd {
	return func() tea.Msg {
		return m.submitPayload(payload, onReject)
	}
}

func (m *Model) submitPayload(payload capture.Payload, onReject display.Notice) tea.Msg {
	id, err := m.cfg.Pipeline.Submit(m.ctx, payload)
	if err != nil {
		return captureFailedMsg{notice: onReject, err: err}
	}

	return submittedMsg{id: id}
}

// toggleRecording starts or stops the recorder. Starting is refused while a
// run is in flight; stopping never is.
func (m *Model) toggleRecording() tea.Cmd {
	rec := m.cfg.Recorder
	if rec == nil {
		return func() tea.Msg { return toggledMsg{err: errNoRecorder} }
	}

	if !rec.IsRecording() && m.captureBlocked() {
		return nil
	}

	return func() tea.Msg {
		payload, stopped, err := rec.Toggle(m.ctx)
		return toggledMsg{payload: payload, stopped: stopped, err: err}
	}
}

// export writes the current notes as markdown to the export directory.
func (m *Model) export() tea.Cmd {
	snap := m.snap
	now := m.cfg.Now()
	dir := m.cfg.ExportDir

	return func() tea.Msg {
		notes, err := export.FromSnapshot(snap, now)
		if err != nil {
			return exportedMsg{err: err}
		}

		path, err := export.Save(dir, notes, export.FormatMarkdown)

		return exportedMsg{path: path, err: err}
	}
}
