package audio

import (
	"time"

	"github.com/wisp-ai/wisp/pkg/audio/pcm"
)

// Capabilities describes what the hardware supports for a given format.
type Capabilities struct {
	Format pcm.Format

	// InputBufferBytes is the minimum input buffer size the device accepts.
	InputBufferBytes int

	// OutputBufferBytes is the preferred write size for the output device.
	// Playback writes are sliced to this size.
	OutputBufferBytes int
}

// InputDevice is an open capture stream. ReadWindow blocks until one full
// window of samples is available.
type InputDevice interface {
	// ReadWindow fills buf with little-endian 16-bit PCM and returns the
	// number of bytes read.
	ReadWindow(buf []byte) (int, error)
	Close() error
}

// OutputDevice is an open playback stream.
type OutputDevice interface {
	// Write plays little-endian 16-bit PCM. It may write fewer bytes than
	// given; the caller retries the remainder.
	Write(buf []byte) (int, error)
	Close() error
}

// Hardware abstracts the platform audio backend. The portaudio package
// provides the real implementation; tests use fakes.
type Hardware interface {
	// Probe checks that input and output devices can be sized for the
	// format and returns their buffer capabilities.
	Probe(f pcm.Format) (Capabilities, error)

	// OpenInput opens a capture stream reading windows of the given
	// duration.
	OpenInput(f pcm.Format, window time.Duration) (InputDevice, error)

	// OpenOutput opens a playback stream.
	OpenOutput(f pcm.Format) (OutputDevice, error)

	// SetCommunicationMode toggles telephony-style routing (speakerphone
	// off). The previous mode is returned so it can be restored.
	SetCommunicationMode(on bool) (prev bool, err error)
}
