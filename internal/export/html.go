package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alkime/noteforge/internal/pipeline"
)

//go:embed templates/notes.html.tmpl
var templateFS embed.FS

var notesTemplate = template.Must(template.ParseFS(templateFS, "templates/notes.html.tmpl"))

type htmlSection struct {
	Title string
	Body  string
}

type htmlPage struct {
	Title     string
	Subtitle  string
	Sections  []htmlSection
	AutoPrint bool
}

// HTMLOptions tunes WriteHTML.
type HTMLOptions struct {
	// AutoPrint opens the print dialog as soon as the page loads.
	AutoPrint bool
}

// WriteHTML renders notes as a standalone, print-ready HTML page.
func WriteHTML(w io.Writer, notes Notes, opts ...HTMLOptions) error {
	page := htmlPage{
		Title:    notes.Title,
		Subtitle: subtitle(notes),
	}
	for _, o := range opts {
		page.AutoPrint = page.AutoPrint || o.AutoPrint
	}

	if notes.Transcription != nil {
		page.Sections = append(page.Sections, htmlSection{
			Title: pipeline.TranscriptionTitle,
			Body:  strings.TrimSpace(*notes.Transcription),
		})
	}
	if notes.Summary != nil {
		page.Sections = append(page.Sections, htmlSection{
			Title: pipeline.SummaryTitle,
			Body:  strings.TrimSpace(*notes.Summary),
		})
	}

	if err := notesTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render html export: %w", err)
	}

	return nil
}
