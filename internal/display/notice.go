package display

import "fmt"

// Notice is a transient, toast-style message for the user.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Error       bool   `json:"error"`
}

func (n Notice) String() string {
	return n.Title + ": " + n.Description
}

var (
	NoticeTranscriptionFailed = Notice{
		Title:       "Transcription Failed",
		Description: "Could not transcribe the audio. Please try again.",
		Error:       true,
	}
	NoticeSummarizationFailed = Notice{
		Title:       "Summarization Failed",
		Description: "Could not summarize the text. Please try again.",
		Error:       true,
	}
	NoticeRecordingError = Notice{
		Title:       "Recording Error",
		Description: "Could not access microphone. Please check permissions.",
		Error:       true,
	}
	NoticeFileReadError = Notice{
		Title:       "File Read Error",
		Description: "Could not read the selected file.",
		Error:       true,
	}
)

// CopiedNotice confirms a successful copy of the panel titled title.
func CopiedNotice(title string) Notice {
	return Notice{
		Title:       "Copied to clipboard!",
		Description: fmt.Sprintf("%s has been copied.", title),
	}
}
