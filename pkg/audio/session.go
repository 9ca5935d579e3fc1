package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wisp-ai/wisp/pkg/audio/pcm"
	"github.com/wisp-ai/wisp/pkg/buffer"
	"github.com/wisp-ai/wisp/pkg/watch"
)

// hardwareLock makes concurrent sessions mutually exclusive. Device handles
// and the communication-mode flag cannot be shared between sessions.
var hardwareLock sync.Mutex

// Config controls session behavior. The zero value gets sensible defaults.
type Config struct {
	// Format is the capture and playback format. Default L16Mono16K.
	Format pcm.Format

	// Window is the capture chunk duration. Default 100ms.
	Window time.Duration

	// QueueSize is the capacity of the capture chunk queue. When full, the
	// oldest chunk is dropped so capture never blocks. Default 32.
	QueueSize int

	// WriteRetries bounds playback write retries per item. Default 3.
	WriteRetries int

	// RetryBackoff is the pause between playback write retries.
	// Default 20ms.
	RetryBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = 100 * time.Millisecond
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 32
	}
	if c.WriteRetries <= 0 {
		c.WriteRetries = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 20 * time.Millisecond
	}
	return c
}

// Session owns the capture loop and the playback queue for one device pair.
// At most one session may be initialized at a time.
type Session struct {
	hw  Hardware
	cfg Config

	level  pcm.AtomicLevel
	chunks *buffer.Ring[Chunk]
	seq    atomic.Uint64

	capturing *watch.Hub[bool]
	playing   *watch.Hub[bool]
	errs      chan error

	mu          sync.Mutex
	caps        *Capabilities
	owned       bool
	input       InputDevice
	output      OutputDevice
	captureStop chan struct{}
	captureDone chan struct{}
	commMode    bool
	prevMode    bool

	// Playback queue state. Guarded by pqMu, not mu: the enqueue caller
	// and the drain goroutine contend here only.
	pqMu       sync.Mutex
	pqItems    [][]byte
	pqDraining bool
	pqGen      uint64
}

// NewSession creates a Session backed by the given hardware.
func NewSession(hw Hardware, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		hw:        hw,
		cfg:       cfg,
		chunks:    buffer.NewRing[Chunk](cfg.QueueSize),
		capturing: watch.NewHub(false),
		playing:   watch.NewHub(false),
		errs:      make(chan error, 16),
	}
}

// Initialize probes the hardware for the configured format and claims
// exclusive ownership of the devices. Returns ErrDeviceBusy if another
// session holds them, or ErrDeviceUnavailable if either device cannot be
// sized.
func (s *Session) Initialize() (Capabilities, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.caps != nil {
		return *s.caps, nil
	}
	if !hardwareLock.TryLock() {
		return Capabilities{}, ErrDeviceBusy
	}
	caps, err := s.hw.Probe(s.cfg.Format)
	if err != nil {
		hardwareLock.Unlock()
		return Capabilities{}, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.owned = true
	s.caps = &caps
	return caps, nil
}

// Chunks returns the capture output queue. The coordinator consumes it with
// Next; the queue is closed when the session closes.
func (s *Session) Chunks() *buffer.Ring[Chunk] {
	return s.chunks
}

// Level returns the loudness of the most recent capture window, in [0, 1].
func (s *Session) Level() float64 {
	return s.level.Load()
}

// Capturing returns the observable capture-activity flag.
func (s *Session) Capturing() *watch.Hub[bool] {
	return s.capturing
}

// Playing returns the observable playback-activity flag.
func (s *Session) Playing() *watch.Hub[bool] {
	return s.playing
}

// Errors returns the error-notification channel. Hardware errors are
// reported here instead of crossing goroutine boundaries as panics.
func (s *Session) Errors() <-chan error {
	return s.errs
}

// Close stops capture and playback, releases the devices and the hardware
// ownership. Safe to call more than once.
func (s *Session) Close() error {
	s.StopCapture()
	s.StopPlayback()

	s.mu.Lock()
	if s.output != nil {
		s.output.Close()
		s.output = nil
	}
	if s.commMode {
		if _, err := s.hw.SetCommunicationMode(s.prevMode); err != nil {
			slog.Warn("audio: failed to restore route mode", "err", err)
		}
		s.commMode = false
	}
	owned := s.owned
	s.owned = false
	s.caps = nil
	s.mu.Unlock()

	s.chunks.Close()
	if owned {
		hardwareLock.Unlock()
	}
	return nil
}

func (s *Session) reportError(err error) {
	select {
	case s.errs <- err:
	default:
		slog.Warn("audio: error channel full, dropping", "err", err)
	}
}

// acquireRouteLocked switches the device into communication mode if it is
// not already. Caller holds s.mu.
func (s *Session) acquireRouteLocked() {
	if s.commMode {
		return
	}
	prev, err := s.hw.SetCommunicationMode(true)
	if err != nil {
		slog.Warn("audio: failed to set communication mode", "err", err)
		return
	}
	s.commMode = true
	s.prevMode = prev
}

// releaseRouteIfIdle restores the prior route mode once neither capture nor
// playback is active.
func (s *Session) releaseRouteIfIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.commMode {
		return
	}
	if s.capturing.Get() || s.playing.Get() {
		return
	}
	if _, err := s.hw.SetCommunicationMode(s.prevMode); err != nil {
		slog.Warn("audio: failed to restore route mode", "err", err)
		return
	}
	s.commMode = false
}
