// Package export renders the current notes for printing or saving.
// Exporting never changes pipeline state.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alkime/noteforge/internal/pipeline"
)

// ErrNothingToExport means neither a transcription nor a summary is present.
var ErrNothingToExport = errors.New("nothing to export")

const defaultTitle = "Lecture Notes"

// Notes is the exportable content of one capture.
type Notes struct {
	Title         string
	Source        string
	GeneratedAt   time.Time
	Transcription *string
	Summary       *string
}

// FromSnapshot builds notes from whatever results snap currently holds.
func FromSnapshot(snap pipeline.Snapshot, now time.Time) (Notes, error) {
	if !snap.CanExport() {
		return Notes{}, ErrNothingToExport
	}

	title := defaultTitle
	name := filepath.Base(snap.Source)
	if base := strings.TrimSuffix(name, filepath.Ext(name)); snap.Source != "" && base != "" {
		title = defaultTitle + ": " + base
	}

	return Notes{
		Title:         title,
		Source:        snap.Source,
		GeneratedAt:   now,
		Transcription: snap.Transcription,
		Summary:       snap.Summary,
	}, nil
}

// Format is an export file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatDocx     Format = "docx"
)

// Formats lists every supported format.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatDocx}

// ParseFormat accepts a format name or its common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm", "print":
		return FormatHTML, nil
	case "docx", "word":
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FileName returns <slug>-<timestamp>.<ext> for notes.
func FileName(notes Notes, format Format) string {
	slug := Slug(notes.Title)
	if slug == "" {
		slug = "notes"
	}
	return fmt.Sprintf("%s-%s.%s", slug, notes.GeneratedAt.Format("20060102-150405"), format)
}

// Save writes notes into dir in the given format and returns the file path.
func Save(dir string, notes Notes, format Format) (string, error) {
	if notes.Transcription == nil && notes.Summary == nil {
		return "", ErrNothingToExport
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(notes, format))

	switch format {
	case FormatMarkdown:
		if err := os.WriteFile(path, []byte(Markdown(notes)), 0o644); err != nil { //nolint:gosec // user-readable notes
			return "", fmt.Errorf("failed to write markdown export: %w", err)
		}
	case FormatHTML:
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("failed to create html export: %w", err)
		}
		if err := WriteHTML(f, notes); err != nil {
			_ = f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close html export: %w", err)
		}
	case FormatDocx:
		if err := WriteDocx(path, notes); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	return path, nil
}
