// Package bridge glues the audio pipeline to the streaming protocol
// session. The coordinator forwards captured chunks upstream under a
// sampling policy and routes inbound deltas to playback and to a text
// stream, without letting either side backpressure the other unboundedly.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wisp-ai/wisp/pkg/audio"
	"github.com/wisp-ai/wisp/pkg/buffer"
	"github.com/wisp-ai/wisp/pkg/live"
	"github.com/wisp-ai/wisp/pkg/watch"
)

// AudioPort is the slice of the audio session the coordinator needs.
type AudioPort interface {
	Chunks() *buffer.Ring[audio.Chunk]
	EnqueuePlayback(samples []byte) error
}

// StreamPort is the slice of the protocol session the coordinator needs.
type StreamPort interface {
	SendText(text string) error
	SendAudioChunk(samples []byte) error
	SendVideoFrame(jpeg []byte) error
	Events() <-chan live.ServerEvent
}

// Tap observes traffic passing through the coordinator, for session
// recording. Calls run on the bridging loops; implementations must not
// block.
type Tap interface {
	Chunk(c audio.Chunk)
	Event(ev live.ServerEvent)
}

// Config tunes the coordinator. The zero value gets sensible defaults.
type Config struct {
	// SamplingInterval is the minimum spacing between forwarded audio
	// chunks. Capture produces chunks faster than the service ingests
	// them, so chunks arriving inside the interval are discarded on
	// purpose. Default 500ms.
	SamplingInterval time.Duration

	// TextBuffer is the capacity of the text-output channel. Default 32.
	TextBuffer int

	// ErrorBuffer is the capacity of the error channel. Default 16.
	ErrorBuffer int

	// Tap, if set, observes forwarded chunks and inbound events.
	Tap Tap
}

func (c Config) withDefaults() Config {
	if c.SamplingInterval <= 0 {
		c.SamplingInterval = 500 * time.Millisecond
	}
	if c.TextBuffer <= 0 {
		c.TextBuffer = 32
	}
	if c.ErrorBuffer <= 0 {
		c.ErrorBuffer = 16
	}
	return c
}

// Coordinator runs the two bridging loops. It never reconnects a failed
// session on its own; errors are surfaced and the caller decides.
type Coordinator struct {
	au   AudioPort
	sess StreamPort
	cfg  Config

	text     chan string
	errs     chan error
	speaking *watch.Hub[bool]

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a Coordinator bridging the given audio and stream ports.
func New(au AudioPort, sess StreamPort, cfg Config) *Coordinator {
	cfg = cfg.withDefaults()
	return &Coordinator{
		au:       au,
		sess:     sess,
		cfg:      cfg,
		text:     make(chan string, cfg.TextBuffer),
		errs:     make(chan error, cfg.ErrorBuffer),
		speaking: watch.NewHub(false),
	}
}

// Start launches the outbound and inbound loops. Idempotent.
func (c *Coordinator) Start() {
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(2)
		go c.outboundLoop(ctx)
		go c.inboundLoop(ctx)
	})
}

// Stop cancels both loops and waits for them to exit. Idempotent.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.wg.Wait()
	})
}

// Text returns the stream of text deltas for UI consumption.
func (c *Coordinator) Text() <-chan string {
	return c.text
}

// Errors returns the error-notification stream.
func (c *Coordinator) Errors() <-chan error {
	return c.errs
}

// Speaking returns the observable server-is-speaking flag. It flips on
// with the first audio delta of a turn and off at turn completion.
func (c *Coordinator) Speaking() *watch.Hub[bool] {
	return c.speaking
}

// SendText forwards a user turn; failures land on the error stream.
func (c *Coordinator) SendText(text string) {
	if err := c.sess.SendText(text); err != nil {
		c.reportError(err)
	}
}

// SendVideoFrame forwards one JPEG still; failures land on the error
// stream.
func (c *Coordinator) SendVideoFrame(jpeg []byte) {
	if err := c.sess.SendVideoFrame(jpeg); err != nil {
		c.reportError(err)
	}
}

// outboundLoop forwards captured chunks upstream, at most one per sampling
// interval. Chunks inside the interval are dropped by design: raw capture
// rate exceeds the service intake rate.
func (c *Coordinator) outboundLoop(ctx context.Context) {
	defer c.wg.Done()

	var lastSent time.Time
	for {
		chunk, err := c.au.Chunks().NextContext(ctx)
		if err != nil {
			return
		}
		if time.Since(lastSent) < c.cfg.SamplingInterval {
			continue
		}
		if err := c.sess.SendAudioChunk(chunk.Data); err != nil {
			c.reportError(err)
			continue
		}
		lastSent = time.Now()
		if c.cfg.Tap != nil {
			c.cfg.Tap.Chunk(chunk)
		}
	}
}

// inboundLoop dispatches decoded server events.
func (c *Coordinator) inboundLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.sess.Events():
			c.dispatch(ev)
		}
	}
}

func (c *Coordinator) dispatch(ev live.ServerEvent) {
	if c.cfg.Tap != nil {
		c.cfg.Tap.Event(ev)
	}
	switch ev.Type {
	case live.EventAudioDelta:
		c.speaking.Set(true)
		if err := c.au.EnqueuePlayback(ev.Audio); err != nil {
			c.reportError(err)
		}
		if ev.Text != "" {
			c.pushText(ev.Text)
		}
	case live.EventTextDelta:
		c.pushText(ev.Text)
	case live.EventTurnComplete:
		c.speaking.Set(false)
	case live.EventError:
		c.speaking.Set(false)
		c.reportError(ev.Err)
	case live.EventSessionEnded:
		c.speaking.Set(false)
	}
}

func (c *Coordinator) pushText(text string) {
	select {
	case c.text <- text:
	default:
		slog.Warn("bridge: text stream full, dropping delta", "len", len(text))
	}
}

func (c *Coordinator) reportError(err error) {
	select {
	case c.errs <- err:
	default:
		slog.Warn("bridge: error stream full, dropping", "err", err)
	}
}
