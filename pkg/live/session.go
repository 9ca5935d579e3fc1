package live

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wisp-ai/wisp/pkg/audio/pcm"
	"github.com/wisp-ai/wisp/pkg/buffer"
	"github.com/wisp-ai/wisp/pkg/watch"
)

// jpegMimeType tags still video frames on the wire.
const jpegMimeType = "image/jpeg"

// SessionContext is the immutable configuration snapshot for one
// connection. Changing any field requires a new setup handshake, which
// means a new connection.
type SessionContext struct {
	// Model is the model id sent in the setup frame.
	Model string

	// Instruction is the persona system-instruction text. Empty means no
	// system instruction is sent.
	Instruction string

	// Temperature and MaxOutputTokens bound generation. Zero values are
	// omitted from the setup frame.
	Temperature     float64
	MaxOutputTokens int
}

// Session is one streaming connection to the remote service. A Session is
// created disconnected; Connect opens the transport and performs the setup
// handshake. After a transport failure the session stays in StateError
// until the caller explicitly reconnects. There is no automatic retry.
type Session struct {
	cfg    *clientConfig
	state  *watch.Hub[State]
	events chan ServerEvent

	mu      sync.Mutex
	conn    *websocket.Conn
	acked   bool
	closing bool
	pending *buffer.Ring[clientFrame]
}

func newSession(cfg *clientConfig) *Session {
	return &Session{
		cfg:    cfg,
		state:  watch.NewHub(StateDisconnected),
		events: make(chan ServerEvent, cfg.eventBuffer),
	}
}

// State returns the observable connection state.
func (s *Session) State() *watch.Hub[State] {
	return s.state
}

// Events returns the inbound event stream. Events are delivered in arrival
// order; when the consumer falls behind the buffered channel, the newest
// event is dropped with a logged warning rather than stalling the reader.
func (s *Session) Events() <-chan ServerEvent {
	return s.events
}

// Connect opens the transport and sends exactly one setup frame derived
// from sctx. It returns once the transport is open; the setup
// acknowledgment arrives asynchronously as an EventSetupAck. Content sent
// before the acknowledgment is held in a bounded buffer and flushed in
// order when it arrives. Calling Connect on a connected session is a
// no-op.
func (s *Session) Connect(ctx context.Context, sctx SessionContext) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.state.Set(StateConnecting)

	endpoint := fmt.Sprintf("%s?key=%s", s.cfg.endpoint, url.QueryEscape(s.cfg.apiKey))
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		s.state.Set(StateError)
		return fmt.Errorf("live: connect: %w", err)
	}

	setup := clientFrame{Setup: setupFromContext(sctx)}
	if err := conn.WriteJSON(setup); err != nil {
		conn.Close()
		s.state.Set(StateError)
		return fmt.Errorf("live: setup: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.acked = false
	s.closing = false
	s.pending = buffer.NewRing[clientFrame](s.cfg.pendingLimit)
	s.mu.Unlock()

	s.state.Set(StateConnected)
	go s.readLoop(conn)
	return nil
}

func setupFromContext(sctx SessionContext) *setupConfig {
	setup := &setupConfig{Model: sctx.Model}
	if sctx.Temperature != 0 || sctx.MaxOutputTokens != 0 {
		setup.GenerationConfig = &generationConfig{
			Temperature:     sctx.Temperature,
			MaxOutputTokens: sctx.MaxOutputTokens,
		}
	}
	if sctx.Instruction != "" {
		setup.SystemInstruction = &turnContent{
			Parts: []part{{Text: sctx.Instruction}},
		}
	}
	return setup
}

// SendText emits one user turn marked turn-complete.
func (s *Session) SendText(text string) error {
	return s.send(clientFrame{
		ClientContent: &clientContent{
			Turns: []turnContent{{
				Role:  "user",
				Parts: []part{{Text: text}},
			}},
			TurnComplete: true,
		},
	})
}

// SendAudioChunk emits raw PCM samples as a realtime media chunk.
// Fire-and-forget: no acknowledgment is awaited.
func (s *Session) SendAudioChunk(samples []byte) error {
	return s.sendMedia(pcm.L16Mono16K.MimeType(), samples)
}

// SendVideoFrame emits one JPEG-encoded still frame.
func (s *Session) SendVideoFrame(jpeg []byte) error {
	return s.sendMedia(jpegMimeType, jpeg)
}

func (s *Session) sendMedia(mimeType string, data []byte) error {
	return s.send(clientFrame{
		RealtimeInput: &realtimeInput{
			MediaChunks: []mediaBlob{{MimeType: mimeType, Data: data}},
		},
	})
}

// send writes a frame in call order, or holds it while the setup
// acknowledgment is outstanding.
func (s *Session) send(frame clientFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.closing {
		return ErrNotConnected
	}
	if !s.acked {
		if _, dropped := s.pending.Push(frame); dropped {
			slog.Warn("live: handshake buffer full, dropped oldest frame")
		}
		return nil
	}
	return s.conn.WriteJSON(frame)
}

// Disconnect closes the transport with a normal-closure code. Subsequent
// sends fail fast with ErrNotConnected. Safe to call more than once.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	conn := s.conn
	if conn == nil {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	err := conn.Close()
	s.state.Set(StateDisconnected)
	return err
}

// readLoop receives frames until the connection ends. Malformed frames are
// logged and dropped; they never terminate the loop.
func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			s.finish(conn, err)
			return
		}

		ev, err := decodeFrame(msg)
		if err != nil {
			slog.Warn("live: dropping undecodable frame", "len", len(msg), "err", err)
			continue
		}

		if ev.Type == EventSetupAck {
			s.flushPending(conn)
		}
		s.emit(ev)
	}
}

// flushPending marks the handshake acknowledged and writes held frames in
// their original order.
func (s *Session) flushPending(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.acked = true
	for _, frame := range s.pending.Drain() {
		if err := conn.WriteJSON(frame); err != nil {
			slog.Warn("live: flush after setup ack failed", "err", err)
			return
		}
	}
}

// finish tears down after the receive loop ends, distinguishing a
// requested close from a transport failure.
func (s *Session) finish(conn *websocket.Conn, err error) {
	s.mu.Lock()
	requested := s.closing
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	conn.Close()

	if requested || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.state.Set(StateDisconnected)
		s.emit(ServerEvent{Type: EventSessionEnded})
		return
	}
	s.state.Set(StateError)
	s.emit(ServerEvent{Type: EventError, Err: fmt.Errorf("live: transport: %w", err)})
}

func (s *Session) emit(ev ServerEvent) {
	select {
	case s.events <- ev:
	default:
		slog.Warn("live: event buffer full, dropping", "type", ev.Type)
	}
}
