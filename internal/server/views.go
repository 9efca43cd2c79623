package server

import (
	"github.com/alkime/noteforge/internal/display"
	"github.com/alkime/noteforge/internal/pipeline"
)

type panelView struct {
	display.Panel
	Mode    display.Mode `json:"mode"`
	Body    string       `json:"body"`
	CanCopy bool         `json:"canCopy"`
}

type notesView struct {
	pipeline.Snapshot
	Processing bool `json:"processing"`
	CanExport  bool `json:"canExport"`
	Panels     struct {
		Transcription panelView `json:"transcription"`
		Summary       panelView `json:"summary"`
	} `json:"panels"`
}

func newPanelView(p display.Panel) panelView {
	return panelView{
		Panel:   p,
		Mode:    p.Mode(),
		Body:    p.Body(),
		CanCopy: p.CanCopy(),
	}
}

func newNotesView(snap pipeline.Snapshot) notesView {
	v := notesView{
		Snapshot:   snap,
		Processing: snap.Processing(),
		CanExport:  snap.CanExport(),
	}

	transcription, summary := snap.Panels()
	v.Panels.Transcription = newPanelView(transcription)
	v.Panels.Summary = newPanelView(summary)

	return v
}
