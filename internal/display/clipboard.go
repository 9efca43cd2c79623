package display

import (
	"errors"
	"fmt"
	"io"

	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrNothingToCopy means the panel has no content to copy.
var ErrNothingToCopy = errors.New("nothing to copy")

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// OSC52Clipboard copies through the terminal with an OSC52 escape sequence,
// which also works over SSH.
type OSC52Clipboard struct {
	Out io.Writer
}

func (c OSC52Clipboard) WriteText(text string) error {
	if _, err := osc52.New(text).WriteTo(c.Out); err != nil {
		return fmt.Errorf("failed to write clipboard sequence: %w", err)
	}
	return nil
}

// Copy places the panel content on the clipboard and returns the
// confirmation notice. It never touches pipeline state.
func Copy(cb Clipboard, p Panel) (Notice, error) {
	if !p.CanCopy() {
		return Notice{}, ErrNothingToCopy
	}

	if err := cb.WriteText(*p.Content); err != nil {
		return Notice{}, err
	}

	return CopiedNotice(p.Title), nil
}
