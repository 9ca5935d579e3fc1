package cli

import (
	"strings"

	"github.com/wisp-ai/wisp/pkg/buffer"
)

// Transcript keeps the most recent lines of a conversation for terminal
// display. Old lines fall off the front; readers take snapshots without
// consuming.
type Transcript struct {
	buf *buffer.Ring[string]
}

// NewTranscript creates a transcript holding at most maxLines lines.
func NewTranscript(maxLines int) *Transcript {
	return &Transcript{buf: buffer.NewRing[string](maxLines)}
}

// Add appends one line.
func (t *Transcript) Add(line string) {
	t.buf.Push(line)
}

// Write implements io.Writer so log output can be captured into the
// transcript. Multi-line input is split on newlines.
func (t *Transcript) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(text, "\n") {
		t.Add(line)
	}
	return len(p), nil
}

// Lines returns a snapshot of the buffered lines, oldest first.
func (t *Transcript) Lines() []string {
	return t.buf.Snapshot()
}
