package audio

import (
	"github.com/gen2brain/malgo"
)

// DeviceConfig describes the capture format requested from the microphone.
type DeviceConfig struct {
	Format          malgo.FormatType
	CaptureChannels int
	SampleRate      int
	// PacketBuffer is the capacity of the packet channel handed out by Capture.
	PacketBuffer int
}

// DefaultDeviceConfig is 16kHz mono S16LE, what Whisper expects natively.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Format:          malgo.FormatS16,
		CaptureChannels: DefaultChannels,
		SampleRate:      DefaultSampleRate,
		PacketBuffer:    64,
	}
}
