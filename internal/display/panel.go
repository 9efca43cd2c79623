// Package display turns pipeline results into panel view-models and handles
// the copy action. It holds no state of its own.
package display

// Mode is the one thing a panel shows at a time.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeLoading
	ModeContent
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeContent:
		return "content"
	case ModeError:
		return "error"
	default:
		return "empty"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// EmptyText is shown by a panel with nothing to display.
const EmptyText = "Nothing to display yet."

// LoadingText is shown by a panel waiting on a provider.
const LoadingText = "Working on it..."

// Panel is one labeled text panel: the transcription or the summary.
type Panel struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
	Loading bool    `json:"loading"`
	Error   string  `json:"error,omitempty"`
}

// Mode resolves which single state the panel renders. Loading wins over
// content, content over error, error over empty.
func (p Panel) Mode() Mode {
	switch {
	case p.Loading:
		return ModeLoading
	case p.Content != nil:
		return ModeContent
	case p.Error != "":
		return ModeError
	default:
		return ModeEmpty
	}
}

// CanCopy reports whether the copy action is offered.
func (p Panel) CanCopy() bool {
	return p.Mode() == ModeContent
}

// Body returns the text to render for the current mode.
func (p Panel) Body() string {
	switch p.Mode() {
	case ModeLoading:
		return LoadingText
	case ModeContent:
		return *p.Content
	case ModeError:
		return p.Error
	default:
		return EmptyText
	}
}
