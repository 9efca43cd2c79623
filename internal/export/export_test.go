package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alkime/noteforge/internal/export"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

var generatedAt = time.Date(2026, 10, 15, 14, 4, 5, 0, time.UTC)

func lectureNotes(t *testing.T) export.Notes {
	t.Helper()

	notes, err := export.FromSnapshot(pipeline.Snapshot{
		Source:        "lecture.mp3",
		State:         pipeline.Done,
		Transcription: ptr("Today we discuss entropy."),
		Summary:       ptr("## Key points\n\n- **Entropy** measures disorder\n- It never decreases"),
	}, generatedAt)
	require.NoError(t, err)

	return notes
}

func TestFromSnapshot(t *testing.T) {
	notes := lectureNotes(t)
	assert.Equal(t, "Lecture Notes: lecture", notes.Title)
	assert.Equal(t, "lecture.mp3", notes.Source)

	_, err := export.FromSnapshot(pipeline.Snapshot{State: pipeline.FailedAtTranscription}, generatedAt)
	assert.ErrorIs(t, err, export.ErrNothingToExport)

	partial, err := export.FromSnapshot(pipeline.Snapshot{
		State:         pipeline.FailedAtSummarization,
		Transcription: ptr("Today we discuss entropy."),
	}, generatedAt)
	require.NoError(t, err)
	assert.Nil(t, partial.Summary)
	assert.Equal(t, "Lecture Notes", partial.Title)

	fromPath, err := export.FromSnapshot(pipeline.Snapshot{
		Source:        "/home/ana/lectures/week-3.m4a",
		Transcription: ptr("Today we discuss entropy."),
	}, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "Lecture Notes: week-3", fromPath.Title)
}

func TestMarkdown(t *testing.T) {
	md := export.Markdown(lectureNotes(t))

	assert.True(t, strings.HasPrefix(md, "# Lecture Notes: lecture\n"))
	assert.Contains(t, md, "Source: lecture.mp3")
	assert.Contains(t, md, "2026-10-15 14:04")
	assert.Contains(t, md, "## Transcription\n\nToday we discuss entropy.\n")
	assert.Contains(t, md, "## Summary\n\n## Key points")
	assert.Less(t, strings.Index(md, "## Transcription"), strings.Index(md, "## Summary"))
}

func TestMarkdown_OmitsAbsentResults(t *testing.T) {
	md := export.Markdown(export.Notes{Title: "Lecture Notes", Transcription: ptr("Only this.")})
	assert.Contains(t, md, "## Transcription")
	assert.NotContains(t, md, "## Summary")
}

func TestWriteHTML(t *testing.T) {
	notes := lectureNotes(t)
	notes.Transcription = ptr("Today we discuss <entropy> & order.")

	var buf bytes.Buffer
	require.NoError(t, export.WriteHTML(&buf, notes))

	out := buf.String()
	assert.Contains(t, out, "<title>Lecture Notes: lecture</title>")
	assert.Contains(t, out, "Today we discuss &lt;entropy&gt; &amp; order.")
	assert.Contains(t, out, "@media print")
	assert.Contains(t, out, "window.print()")
	assert.NotContains(t, out, `addEventListener("load"`)

	buf.Reset()
	require.NoError(t, export.WriteHTML(&buf, notes, export.HTMLOptions{AutoPrint: true}))
	assert.Contains(t, buf.String(), `addEventListener("load"`)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]export.Format{
		"md":       export.FormatMarkdown,
		"Markdown": export.FormatMarkdown,
		".html":    export.FormatHTML,
		"print":    export.FormatHTML,
		"docx":     export.FormatDocx,
	} {
		got, err := export.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := export.ParseFormat("pdf")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	notes := lectureNotes(t)

	for _, format := range export.Formats {
		t.Run(string(format), func(t *testing.T) {
			path, err := export.Save(dir, notes, format)
			require.NoError(t, err)

			assert.Equal(t, "lecture-notes-lecture-20261015-140405."+string(format), filepath.Base(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)

			switch format {
			case export.FormatMarkdown:
				assert.Contains(t, string(data), "Today we discuss entropy.")
			case export.FormatHTML:
				assert.Contains(t, string(data), "<!DOCTYPE html>")
			case export.FormatDocx:
				assert.True(t, bytes.HasPrefix(data, []byte("PK")), "docx is a zip archive")
			}
		})
	}

	_, err := export.Save(dir, export.Notes{Title: "empty"}, export.FormatMarkdown)
	assert.ErrorIs(t, err, export.ErrNothingToExport)
}
