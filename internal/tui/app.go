// Package tui is the interactive terminal front end: pick a capture source,
// watch the transcription and summary fill in, then copy or export them.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/display"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/alkime/noteforge/internal/tui/components/notepanel"
	"github.com/alkime/noteforge/internal/tui/components/waveform"
	"github.com/alkime/noteforge/internal/tui/style"
	"github.com/alkime/noteforge/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Pipeline is the slice of the orchestrator the app drives.
type Pipeline interface {
	Submit(ctx context.Context, payload capture.Payload) (string, error)
	Snapshot() pipeline.Snapshot
	Subscribe() (<-chan pipeline.Event, func())
}

// Recorder is the host microphone. capture.Recorder satisfies it.
type Recorder interface {
	Toggle(ctx context.Context) (capture.Payload, bool, error)
	IsRecording() bool
	Seconds() int64
	Levels() []int16
	Close(ctx context.Context)
}

// Config holds the app's collaborators. Recorder may be nil, which disables
// the Record tab.
type Config struct {
	Pipeline  Pipeline
	Recorder  Recorder
	Clipboard display.Clipboard
	ExportDir string
	// NoticeTTL is how long a notice stays in the status line.
	NoticeTTL time.Duration
	Now       func() time.Time
}

type tab int

const (
	tabUpload tab = iota
	tabRecord
)

func (t tab) String() string {
	if t == tabRecord {
		return "Record"
	}

	return "Upload"
}

type (
	eventMsg        pipeline.Event
	eventsClosedMsg struct{}
	submittedMsg    struct{ id string }
	// captureFailedMsg reports a capture that never reached the pipeline.
	captureFailedMsg struct {
		notice display.Notice
		err    error
	}
	toggledMsg struct {
		payload capture.Payload
		stopped bool
		err     error
	}
	exportedMsg struct {
		path string
		err  error
	}
	noticeExpiredMsg struct{ seq int }
)

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	cfg    Config
	logger *slog.Logger
	keys   KeyMap

	events      <-chan pipeline.Event
	unsubscribe func()

	snap          pipeline.Snapshot
	tab           tab
	path          textinput.Model
	meter         waveform.Model
	transcription notepanel.Model
	summary       notepanel.Model

	notice    *display.Notice
	noticeSeq int
	width     int
}

// New builds the app and subscribes to pipeline events so none are missed
// between construction and the first render.
func New(ctx context.Context, cfg Config, logger *slog.Logger) *Model {
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = 4 * time.Second
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	path := textinput.New()
	path.Placeholder = "path/to/lecture.mp3"
	path.Prompt = "Audio file: "
	path.Focus()

	var levels uictl.Levels[int16]
	if cfg.Recorder != nil {
		levels = uictl.LevelsFunc[int16](cfg.Recorder.Levels)
	}

	events, unsubscribe := cfg.Pipeline.Subscribe()

	m := &Model{
		ctx:           ctx,
		cfg:           cfg,
		logger:        logger,
		keys:          DefaultKeyMap(),
		events:        events,
		unsubscribe:   unsubscribe,
		snap:          cfg.Pipeline.Snapshot(),
		path:          path,
		meter:         waveform.New(levels, 60, 2),
		transcription: notepanel.New(pipeline.TranscriptionTitle, "ctrl+t"),
		summary:       notepanel.New(pipeline.SummaryTitle, "ctrl+s"),
		width:         80,
	}
	m.applySnapshot(m.snap)

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.meter.Init(),
		m.transcription.Init(),
		m.summary.Init(),
		waitForEvent(m.events),
	)
}

func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.applySnapshot(msg.Snapshot)

		var cmd tea.Cmd
		if msg.Notice != nil {
			cmd = m.showNotice(*msg.Notice)
		}

		return m, tea.Batch(cmd, waitForEvent(m.events))

	case eventsClosedMsg:
		return m, nil

	case submittedMsg:
		m.logger.Debug("capture submitted", "capture_id", msg.id)
		return m, nil

	case captureFailedMsg:
		m.logger.Warn("capture failed", "error", msg.err)
		return m, m.showNotice(msg.notice)

	case toggledMsg:
		return m.handleToggled(msg)

	case exportedMsg:
		if msg.err != nil {
			m.logger.Error("export failed", "error", msg.err)
			return m, m.showNotice(display.Notice{Title: "Export Failed", Description: msg.err.Error(), Error: true})
		}

		m.logger.Info("notes exported", "path", msg.path)

		return m, m.showNotice(display.Notice{Title: "Notes exported", Description: msg.path})

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}

		return m, nil
	}

	return m.updateChildren(teaMsg)
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("NoteForge"))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")

	if m.tab == tabUpload {
		sb.WriteString(m.path.View())
	} else {
		sb.WriteString(m.renderRecorder())
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.transcription.View())
	sb.WriteString("\n")
	sb.WriteString(m.summary.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n\n")
	sb.WriteString(m.renderHelp())

	return sb.String()
}

// Snapshot returns the pipeline state the app last rendered.
func (m *Model) Snapshot() pipeline.Snapshot {
	return m.snap
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchTab):
		m.switchTab()
		return m, nil

	case key.Matches(msg, m.keys.CopyTranscription):
		return m, m.copy(m.transcription)

	case key.Matches(msg, m.keys.CopySummary):
		return m, m.copy(m.summary)

	case key.Matches(msg, m.keys.Export):
		return m, m.export()

	case m.tab == tabUpload && key.Matches(msg, m.keys.Submit):
		return m, m.submitFile()

	case m.tab == tabRecord && key.Matches(msg, m.keys.Toggle):
		return m, m.toggleRecording()
	}

	if m.tab == tabUpload {
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleToggled(msg toggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("recording failed", "error", msg.err)
		return m, m.showNotice(display.NoticeRecordingError)
	}

	if !msg.stopped {
		m.logger.Info("recording started")
		return m, nil
	}

	m.logger.Info("recording stopped", "bytes", msg.payload.Size())

	return m, m.submit(msg.payload, display.NoticeRecordingError)
}

func (m *Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [4]tea.Cmd

	m.meter, cmds[0] = m.meter.Update(msg)
	m.transcription, cmds[1] = m.transcription.Update(msg)
	m.summary, cmds[2] = m.summary.Update(msg)

	if m.tab == tabUpload {
		m.path, cmds[3] = m.path.Update(msg)
	}

	return m, tea.Batch(cmds[:]...)
}

func (m *Model) applySnapshot(snap pipeline.Snapshot) {
	m.snap = snap

	transcription, summary := snap.Panels()
	m.transcription = m.transcription.SetPanel(transcription)
	m.summary = m.summary.SetPanel(summary)

	m.keys.CopyTranscription.SetEnabled(transcription.CanCopy())
	m.keys.CopySummary.SetEnabled(summary.CanCopy())
	m.keys.Export.SetEnabled(snap.CanExport())
}

func (m *Model) resize(width int) {
	m.width = width
	m.path.Width = max(width-len(m.path.Prompt)-2, 10)
	m.meter = m.meter.SetWidth(width - 2)
	m.transcription = m.transcription.SetWidth(width)
	m.summary = m.summary.SetWidth(width)
}

func (m *Model) switchTab() {
	if m.tab == tabUpload {
		m.tab = tabRecord
		m.path.Blur()

		return
	}

	m.tab = tabUpload
	m.path.Focus()
}

// captureBlocked reports whether a new capture must wait for the current run.
func (m *Model) captureBlocked() bool {
	return m.snap.Processing()
}

func (m *Model) recording() bool {
	return m.cfg.Recorder != nil && m.cfg.Recorder.IsRecording()
}

func (m *Model) shutdown() {
	if m.cfg.Recorder != nil {
		m.cfg.Recorder.Close(m.ctx)
	}

	m.unsubscribe()
}

func (m *Model) showNotice(n display.Notice) tea.Cmd {
	m.noticeSeq++
	m.notice = &n
	seq := m.noticeSeq

	return tea.Tick(m.cfg.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) copy(panel notepanel.Model) tea.Cmd {
	n, err := display.Copy(m.cfg.Clipboard, panel.Panel())
	if err != nil {
		m.logger.Warn("copy failed", "panel", panel.Panel().Title, "error", err)
		return nil
	}

	return m.showNotice(n)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, 2)

	for _, t := range []tab{tabUpload, tabRecord} {
		if t == m.tab {
			tabs = append(tabs, style.ActiveTab.Render(t.String()))
		} else {
			tabs = append(tabs, style.Tab.Render(t.String()))
		}
	}

	return strings.Join(tabs, " ")
}

func (m *Model) renderRecorder() string {
	if m.cfg.Recorder == nil {
		return style.Muted.Render("No recording device configured.")
	}

	elapsed := formatElapsed(m.cfg.Recorder.Seconds())

	var status string
	if m.cfg.Recorder.IsRecording() {
		status = style.Recording.Render("● REC " + elapsed)
	} else {
		status = style.Subtitle.Render("Ready " + elapsed)
	}

	return status + "\n" + m.meter.View()
}

func (m *Model) renderStatus() string {
	line := style.Subtitle.Render("Status: " + m.snap.State.String())

	if m.notice != nil {
		s := style.Success
		if m.notice.Error {
			s = style.Error
		}

		line += "  " + s.Render(m.notice.String())
	}

	return line
}

func (m *Model) renderHelp() string {
	var actions []key.Binding

	switch {
	case m.recording():
		actions = append(actions, m.keys.Toggle)
	case m.captureBlocked():
	case m.tab == tabUpload:
		actions = append(actions, m.keys.Submit)
	case m.cfg.Recorder != nil:
		actions = append(actions, m.keys.Toggle)
	}

	return renderKeyHelp(actions...) + "\n" + renderKeyHelp(
		m.keys.SwitchTab,
		m.keys.CopyTranscription,
		m.keys.CopySummary,
		m.keys.Export,
		m.keys.Quit,
	)
}

// formatElapsed renders seconds as mm:ss.
func formatElapsed(seconds int64) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
