// Package pcm provides raw audio format descriptions and sample math for
// 16-bit little-endian PCM streams.
package pcm

import "time"

const (
	// L16Mono16K represents audio/L16; rate=16000; channels=1.
	// This is the capture and playback format the remote service expects.
	L16Mono16K Format = iota
	// L16Mono24K represents audio/L16; rate=24000; channels=1.
	L16Mono24K
)

// Format represents an audio format configuration.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Mono24K:
		return 24000
	}
	panic("pcm: invalid audio format")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K, L16Mono24K:
		return 1
	}
	panic("pcm: invalid audio format")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Mono16K, L16Mono24K:
		return 16
	}
	panic("pcm: invalid audio format")
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int {
	return int(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int {
	return f.SamplesInDuration(d) * f.Channels() * f.Depth() / 8
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int) time.Duration {
	samples := bytes * 8 / f.Channels() / f.Depth()
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.Channels() * f.Depth() / 8
}

// MimeType returns the mime type string used on the wire for this format.
func (f Format) MimeType() string {
	switch f {
	case L16Mono16K:
		return "audio/pcm;rate=16000"
	case L16Mono24K:
		return "audio/pcm;rate=24000"
	}
	panic("pcm: invalid audio format")
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case L16Mono16K:
		return "audio/L16; rate=16000; channels=1"
	case L16Mono24K:
		return "audio/L16; rate=24000; channels=1"
	}
	panic("pcm: invalid audio format")
}
