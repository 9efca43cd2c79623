package tui

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/pipeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type staticPipeline struct {
	snap      pipeline.Snapshot
	submitted int
}

func (p *staticPipeline) Submit(context.Context, capture.Payload) (string, error) {
	p.submitted++
	return "id", nil
}

func (p *staticPipeline) Snapshot() pipeline.Snapshot { return p.snap }

func (p *staticPipeline) Subscribe() (<-chan pipeline.Event, func()) {
	ch := make(chan pipeline.Event)
	return ch, func() {}
}

func newTestModel(snap pipeline.Snapshot) (*Model, *staticPipeline) {
	p := &staticPipeline{snap: snap}
	m := New(context.Background(), Config{Pipeline: p}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return m, p
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0))
	assert.Equal(t, "00:59", formatElapsed(59))
	assert.Equal(t, "01:05", formatElapsed(65))
	assert.Equal(t, "61:01", formatElapsed(3661))
}

func TestModel_ActionsFollowSnapshot(t *testing.T) {
	text := "Today we discuss entropy."

	m, _ := newTestModel(pipeline.Snapshot{})
	assert.False(t, m.keys.Export.Enabled())
	assert.False(t, m.keys.CopyTranscription.Enabled())
	assert.False(t, m.keys.CopySummary.Enabled())

	m.Update(eventMsg{Snapshot: pipeline.Snapshot{State: pipeline.Summarizing, Transcription: &text}})
	assert.True(t, m.keys.Export.Enabled())
	assert.True(t, m.keys.CopyTranscription.Enabled())
	assert.False(t, m.keys.CopySummary.Enabled())
	assert.True(t, m.captureBlocked())

	m.Update(eventMsg{Snapshot: pipeline.Snapshot{State: pipeline.FailedAtSummarization, Transcription: &text}})
	assert.False(t, m.captureBlocked())
}

func TestModel_SubmitBlockedWhileProcessing(t *testing.T) {
	m, p := newTestModel(pipeline.Snapshot{State: pipeline.Transcribing})
	m.path.SetValue("lecture.mp3")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Zero(t, p.submitted)
}

func TestModel_SwitchTab(t *testing.T) {
	m, _ := newTestModel(pipeline.Snapshot{})
	assert.Equal(t, "Upload", m.tab.String())
	assert.True(t, m.path.Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Record", m.tab.String())
	assert.False(t, m.path.Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, tabUpload, m.tab)
}

func TestModel_NoticeExpires(t *testing.T) {
	m, _ := newTestModel(pipeline.Snapshot{})

	m.Update(exportedMsg{path: "/tmp/notes.md"})
	assert.Contains(t, m.View(), "Notes exported: /tmp/notes.md")

	m.Update(noticeExpiredMsg{seq: m.noticeSeq - 1})
	assert.NotNil(t, m.notice)

	m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	assert.Nil(t, m.notice)
}
