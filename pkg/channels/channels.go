// Package channels holds small generic helpers for fanning values out over Go channels.
package channels

import (
	"errors"
)

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrChannelFull   = errors.New("channel full")
)

// SendNonBlock attempts to send a message without blocking.
// Returns ErrChannelFull when no receiver or buffer slot is ready and
// ErrChannelClosed when the channel has been closed.
func SendNonBlock[T any](ch chan<- T, msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrChannelClosed
		}
	}()

	select {
	case ch <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}
