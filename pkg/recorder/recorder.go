// Package recorder persists session traffic to a trace file for offline
// inspection and replay. Entries are length-delimited msgpack records:
// captured audio chunks, decoded server events, and sent text turns, in
// the order the session observed them.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wisp-ai/wisp/pkg/audio"
	"github.com/wisp-ai/wisp/pkg/live"
)

// Entry kinds.
const (
	KindChunk = "chunk"
	KindEvent = "event"
	KindText  = "text"
)

// Entry is one trace record.
type Entry struct {
	Kind  string    `msgpack:"kind"`
	At    time.Time `msgpack:"at"`
	Seq   uint64    `msgpack:"seq,omitempty"`
	Level float64   `msgpack:"level,omitempty"`
	Event string    `msgpack:"event,omitempty"`
	Text  string    `msgpack:"text,omitempty"`
	Data  []byte    `msgpack:"data,omitempty"`
}

// Writer appends trace entries to a file. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *msgpack.Encoder
}

// Create opens a new trace file, truncating any existing one.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}
	return &Writer{f: f, enc: msgpack.NewEncoder(f)}, nil
}

// Chunk records one captured audio chunk.
func (w *Writer) Chunk(c audio.Chunk) error {
	return w.write(Entry{
		Kind:  KindChunk,
		At:    c.Time,
		Seq:   c.Seq,
		Level: c.Level,
		Data:  c.Data,
	})
}

// Event records one decoded server event.
func (w *Writer) Event(ev live.ServerEvent) error {
	e := Entry{
		Kind:  KindEvent,
		At:    time.Now(),
		Event: ev.Type.String(),
		Text:  ev.Text,
		Data:  ev.Audio,
	}
	if ev.Err != nil {
		e.Text = ev.Err.Error()
	}
	return w.write(e)
}

// Text records one outbound user turn.
func (w *Writer) Text(text string) error {
	return w.write(Entry{Kind: KindText, At: time.Now(), Text: text})
}

func (w *Writer) write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return errors.New("recorder: writer closed")
	}
	return w.enc.Encode(e)
}

// Close flushes and closes the trace file. Idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// Reader iterates a trace file.
type Reader struct {
	f   *os.File
	dec *msgpack.Decoder
}

// Open opens a trace file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}
	return &Reader{f: f, dec: msgpack.NewDecoder(f)}, nil
}

// Next returns the next entry, or io.EOF at the end of the trace.
func (r *Reader) Next() (Entry, error) {
	var e Entry
	if err := r.dec.Decode(&e); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, fmt.Errorf("recorder: decode: %w", err)
	}
	return e, nil
}

// Close closes the trace file.
func (r *Reader) Close() error {
	return r.f.Close()
}
