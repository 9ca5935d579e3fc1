package portaudio

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/wisp-ai/wisp/pkg/audio"
	"github.com/wisp-ai/wisp/pkg/audio/pcm"
)

// writeFrame is the slice duration used for playback writes. Short frames
// keep stop latency low without starving the device.
const writeFrame = 20 * time.Millisecond

// Hardware implements audio.Hardware on top of the default PortAudio
// devices. Desktop hosts have no telephony route, so communication mode is
// tracked but has no device effect here.
type Hardware struct {
	mu       sync.Mutex
	commMode bool
}

// New returns a Hardware backed by the default PortAudio devices.
func New() *Hardware {
	return &Hardware{}
}

// Probe initializes PortAudio and verifies that default input and output
// devices exist for the format.
func (h *Hardware) Probe(f pcm.Format) (audio.Capabilities, error) {
	if err := Initialize(); err != nil {
		return audio.Capabilities{}, err
	}
	if !hasDefaultInput() {
		return audio.Capabilities{}, errors.New("portaudio: no default input device")
	}
	if !hasDefaultOutput() {
		return audio.Capabilities{}, errors.New("portaudio: no default output device")
	}
	return audio.Capabilities{
		Format:            f,
		InputBufferBytes:  f.BytesInDuration(writeFrame),
		OutputBufferBytes: f.BytesInDuration(writeFrame),
	}, nil
}

// OpenInput opens a capture stream on the default input device reading one
// window per call.
func (h *Hardware) OpenInput(f pcm.Format, window time.Duration) (audio.InputDevice, error) {
	frames := f.SamplesInDuration(window)
	stream, err := openStream(f.Channels(), 0, float64(f.SampleRate()), frames)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}
	return &inputStream{stream: stream, frames: frames}, nil
}

// OpenOutput opens a playback stream on the default output device.
func (h *Hardware) OpenOutput(f pcm.Format) (audio.OutputDevice, error) {
	frames := f.SamplesInDuration(writeFrame)
	stream, err := openStream(0, f.Channels(), float64(f.SampleRate()), frames)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}
	return &outputStream{stream: stream, maxFrames: frames}, nil
}

// SetCommunicationMode records the requested routing mode and returns the
// previous one. Mobile backends switch the platform route here; PortAudio
// on desktop has nothing to toggle.
func (h *Hardware) SetCommunicationMode(on bool) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.commMode
	h.commMode = on
	return prev, nil
}

type inputStream struct {
	stream *Stream
	frames int
	mu     sync.Mutex
	closed bool
}

// ReadWindow blocks until one window of samples is captured and fills buf
// with little-endian 16-bit PCM.
func (is *inputStream) ReadWindow(buf []byte) (int, error) {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.closed {
		return 0, io.EOF
	}

	samples, err := is.stream.Read(is.frames)
	if err != nil {
		return 0, err
	}

	n := min(len(samples), len(buf)/2)
	for i := 0; i < n; i++ {
		buf[i*2] = byte(samples[i])
		buf[i*2+1] = byte(samples[i] >> 8)
	}
	return n * 2, nil
}

func (is *inputStream) Close() error {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.closed {
		return nil
	}
	is.closed = true
	return is.stream.Close()
}

type outputStream struct {
	stream    *Stream
	maxFrames int
	mu        sync.Mutex
	closed    bool
}

// Write plays little-endian 16-bit PCM. Writes longer than the device frame
// are truncated; the caller retries the remainder.
func (os *outputStream) Write(buf []byte) (int, error) {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return 0, errors.New("portaudio: stream closed")
	}

	frames := min(len(buf)/2, os.maxFrames)
	if frames == 0 {
		return 0, nil
	}
	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = int16(buf[i*2]) | int16(buf[i*2+1])<<8
	}
	if err := os.stream.Write(samples); err != nil {
		return 0, err
	}
	return frames * 2, nil
}

func (os *outputStream) Close() error {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return nil
	}
	os.closed = true
	return os.stream.Close()
}
