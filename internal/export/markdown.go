package export

import (
	"strings"

	"github.com/alkime/noteforge/internal/pipeline"
)

// Markdown renders notes as a markdown document. Absent results are omitted.
func Markdown(notes Notes) string {
	var b strings.Builder

	b.WriteString("# " + notes.Title + "\n\n")
	b.WriteString("_" + subtitle(notes) + "_\n")

	if notes.Transcription != nil {
		b.WriteString("\n## " + pipeline.TranscriptionTitle + "\n\n")
		b.WriteString(strings.TrimSpace(*notes.Transcription) + "\n")
	}

	if notes.Summary != nil {
		b.WriteString("\n## " + pipeline.SummaryTitle + "\n\n")
		b.WriteString(strings.TrimSpace(*notes.Summary) + "\n")
	}

	return b.String()
}

func subtitle(notes Notes) string {
	generated := "Generated " + notes.GeneratedAt.Format("2006-01-02 15:04")
	if notes.Source == "" {
		return generated
	}
	return "Source: " + notes.Source + " · " + generated
}
