package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alkime/noteforge/internal/audio"
)

// DevicesCmd lists available audio devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run(log *slog.Logger) error {
	log.Debug("enumerating audio devices")

	devices, err := audio.NewDevice(nil).EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		marker := " "
		if dev.IsDefault {
			marker = "*"
		}

		fmt.Printf("%s %s (%d formats)\n", marker, dev.Name, dev.FormatCount)
	}

	return nil
}
