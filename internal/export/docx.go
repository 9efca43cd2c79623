package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 12
	fontColor = "000000"
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// WriteDocx saves notes as a Word document at path. The summary's markdown
// headings, bullets and bold runs are carried over as styling.
func WriteDocx(path string, notes Notes) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create docx document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), notes.Title, true, 18)
	doc.AddParagraph("").AddText(subtitle(notes)).Font(fontName).Size(10).Color("555555").Italic(true)

	if notes.Transcription != nil {
		addStyledRun(doc.AddParagraph(""), pipeline.TranscriptionTitle, true, 15)
		for _, para := range paragraphs(*notes.Transcription) {
			doc.AddParagraph("").AddText(para).Font(fontName).Size(fontSize).Color(fontColor)
		}
	}

	if notes.Summary != nil {
		addStyledRun(doc.AddParagraph(""), pipeline.SummaryTitle, true, 15)
		addMarkdown(doc, *notes.Summary)
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save docx export: %w", err)
	}

	return nil
}

// paragraphs splits plain text on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}

func addMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		if reNumbered.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 15
	case 2:
		return 14
	case 3:
		return 13
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanInline(text)).Font(fontName).Size(size).Color(fontColor)
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanInline(part)).Font(fontName).Size(fontSize).Color(fontColor)
		}
		if i < len(matches) {
			p.AddText(cleanInline(matches[i][1])).Font(fontName).Size(fontSize).Color(fontColor).Bold(true)
		}
	}
}

func cleanInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.ReplaceAll(s, "`", "")
}
