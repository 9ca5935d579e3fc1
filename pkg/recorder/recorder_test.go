package recorder

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/wisp-ai/wisp/pkg/audio"
	"github.com/wisp-ai/wisp/pkg/live"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.trace")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	chunk := audio.Chunk{
		Data:  []byte{1, 2, 3, 4},
		Time:  time.Now(),
		Seq:   7,
		Level: 0.25,
	}
	if err := w.Chunk(chunk); err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if err := w.Event(live.ServerEvent{Type: live.EventTextDelta, Text: "hi"}); err != nil {
		t.Fatalf("event: %v", err)
	}
	if err := w.Text("how far is the moon"); err != nil {
		t.Fatalf("text: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Chunk(chunk); err == nil {
		t.Error("write after close should fail")
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if e.Kind != KindChunk || e.Seq != 7 || e.Level != 0.25 || len(e.Data) != 4 {
		t.Errorf("chunk entry = %+v", e)
	}

	e, err = r.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if e.Kind != KindEvent || e.Event != "textDelta" || e.Text != "hi" {
		t.Errorf("event entry = %+v", e)
	}

	e, err = r.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if e.Kind != KindText || e.Text != "how far is the moon" {
		t.Errorf("text entry = %+v", e)
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}
