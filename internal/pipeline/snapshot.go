package pipeline

import (
	"time"

	"github.com/alkime/noteforge/internal/display"
)

// Panel titles.
const (
	TranscriptionTitle = "Transcription"
	SummaryTitle       = "Summary"
)

// Snapshot is a point-in-time copy of the pipeline state. Absent results are nil.
type Snapshot struct {
	CaptureID          string    `json:"captureId,omitempty"`
	Source             string    `json:"source,omitempty"`
	MediaType          string    `json:"mediaType,omitempty"`
	State              State     `json:"state"`
	Transcription      *string   `json:"transcription"`
	Summary            *string   `json:"summary"`
	TranscriptionError string    `json:"transcriptionError,omitempty"`
	SummaryError       string    `json:"summaryError,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (s Snapshot) LoadingTranscription() bool { return s.State == Transcribing }
func (s Snapshot) LoadingSummary() bool       { return s.State == Summarizing }

// Processing reports whether a provider call is in flight.
func (s Snapshot) Processing() bool {
	return s.LoadingTranscription() || s.LoadingSummary()
}

// CanExport reports whether there is at least one result to export.
func (s Snapshot) CanExport() bool {
	return s.Transcription != nil || s.Summary != nil
}

// Panels builds the transcription and summary view-models.
func (s Snapshot) Panels() (transcription, summary display.Panel) {
	transcription = display.Panel{
		Title:   TranscriptionTitle,
		Content: s.Transcription,
		Loading: s.LoadingTranscription(),
		Error:   s.TranscriptionError,
	}
	summary = display.Panel{
		Title:   SummaryTitle,
		Content: s.Summary,
		Loading: s.LoadingSummary(),
		Error:   s.SummaryError,
	}
	return transcription, summary
}

// Event is published on every state change. Notice is set when the change
// should also raise a transient message.
type Event struct {
	Snapshot Snapshot        `json:"snapshot"`
	Notice   *display.Notice `json:"notice,omitempty"`
}
