package provider

import (
	"fmt"
	"strings"
)

// LectureSummarySystemPrompt instructs every summarization backend.
const LectureSummarySystemPrompt = `You are a note taker. Given the raw transcript of a lecture, you will:
- Summarize the key points, definitions and conclusions of the lecture
- Keep the terminology the lecturer used
- Drop filler, repetitions and off-topic remarks
- Output clean markdown; use headings and bullet points when the material calls for it
- Do NOT invent content that is not in the transcript
- Return only the summary, without any preamble`

// Style is how the summary is laid out.
type Style string

const (
	StyleDefault Style = ""
	StyleBullets Style = "bullets"
	StyleProse   Style = "prose"
	StyleOutline Style = "outline"
)

// Length is roughly how long the summary should be.
type Length string

const (
	LengthDefault Length = ""
	LengthShort   Length = "short"
	LengthMedium  Length = "medium"
	LengthLong    Length = "long"
)

// Directives are optional summary preferences appended to the system prompt.
type Directives struct {
	Style  Style  `yaml:"style"`
	Length Length `yaml:"length"`
}

// Validate rejects unknown style or length values.
func (d Directives) Validate() error {
	switch d.Style {
	case StyleDefault, StyleBullets, StyleProse, StyleOutline:
	default:
		return fmt.Errorf("unknown summary style %q", d.Style)
	}

	switch d.Length {
	case LengthDefault, LengthShort, LengthMedium, LengthLong:
	default:
		return fmt.Errorf("unknown summary length %q", d.Length)
	}

	return nil
}

var styleInstructions = map[Style]string{
	StyleBullets: "Write the summary as a flat list of bullet points.",
	StyleProse:   "Write the summary as a few paragraphs of prose, without bullet points.",
	StyleOutline: "Write the summary as a hierarchical outline with section headings.",
}

var lengthInstructions = map[Length]string{
	LengthShort:  "Keep it brief: at most five sentences or bullet points.",
	LengthMedium: "Aim for roughly one screen of text.",
	LengthLong:   "Be thorough and cover every topic the lecture touched.",
}

// SystemPrompt returns the lecture summary prompt with d applied.
func SystemPrompt(d Directives) string {
	var b strings.Builder
	b.WriteString(LectureSummarySystemPrompt)

	if s, ok := styleInstructions[d.Style]; ok {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	if l, ok := lengthInstructions[d.Length]; ok {
		b.WriteString("\n\n")
		b.WriteString(l)
	}

	return b.String()
}
