// Package audio implements the device-facing half of the streaming core: a
// capture loop that turns microphone input into fixed-duration chunks, and
// an ordered playback queue drained into the output device.
package audio

import "time"

// Chunk is one fixed-duration window of captured audio. Chunks are
// immutable once created and consumed exactly once by the outbound path.
type Chunk struct {
	// Data is raw little-endian 16-bit PCM.
	Data []byte

	// Time is the capture timestamp.
	Time time.Time

	// Seq increases monotonically per session.
	Seq uint64

	// Level is the RMS loudness of this window, in [0, 1].
	Level float64
}
