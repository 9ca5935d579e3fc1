package bridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wisp-ai/wisp/pkg/audio"
	"github.com/wisp-ai/wisp/pkg/buffer"
	"github.com/wisp-ai/wisp/pkg/live"
)

type fakeAudio struct {
	chunks *buffer.Ring[audio.Chunk]

	mu     sync.Mutex
	played [][]byte
	enqErr error
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{chunks: buffer.NewRing[audio.Chunk](64)}
}

func (f *fakeAudio) Chunks() *buffer.Ring[audio.Chunk] { return f.chunks }

func (f *fakeAudio) EnqueuePlayback(samples []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqErr != nil {
		return f.enqErr
	}
	f.played = append(f.played, samples)
	return nil
}

func (f *fakeAudio) playedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.played)
}

type fakeStream struct {
	events chan live.ServerEvent

	mu      sync.Mutex
	audio   [][]byte
	texts   []string
	videos  [][]byte
	sendErr error
}

func newFakeStream() *fakeStream {
	return &fakeStream{events: make(chan live.ServerEvent, 16)}
}

func (f *fakeStream) SendText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeStream) SendAudioChunk(samples []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.audio = append(f.audio, samples)
	return nil
}

func (f *fakeStream) SendVideoFrame(jpeg []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.videos = append(f.videos, jpeg)
	return nil
}

func (f *fakeStream) Events() <-chan live.ServerEvent { return f.events }

func (f *fakeStream) audioCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.audio)
}

func startCoordinator(t *testing.T, au *fakeAudio, st *fakeStream, cfg Config) *Coordinator {
	t.Helper()
	c := New(au, st, cfg)
	c.Start()
	t.Cleanup(c.Stop)
	return c
}

func TestOutboundSampling(t *testing.T) {
	au := newFakeAudio()
	st := newFakeStream()

	// A burst of chunks well inside one sampling interval.
	for i := 0; i < 10; i++ {
		au.chunks.Push(audio.Chunk{Data: []byte{byte(i)}, Seq: uint64(i + 1)})
	}
	startCoordinator(t, au, st, Config{SamplingInterval: 500 * time.Millisecond})

	deadline := time.Now().Add(time.Second)
	for au.chunks.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if got := st.audioCount(); got != 1 {
		t.Errorf("forwarded %d chunks, want 1", got)
	}
}

func TestInboundDispatch(t *testing.T) {
	t.Run("audio delta plays and flips speaking", func(t *testing.T) {
		au := newFakeAudio()
		st := newFakeStream()
		c := startCoordinator(t, au, st, Config{})

		st.events <- live.ServerEvent{Type: live.EventAudioDelta, Audio: []byte{1, 2}}
		waitCond(t, "playback enqueue", func() bool { return au.playedCount() == 1 })
		if !c.Speaking().Get() {
			t.Error("speaking flag not set")
		}

		st.events <- live.ServerEvent{Type: live.EventTurnComplete}
		waitCond(t, "speaking off", func() bool { return !c.Speaking().Get() })
	})

	t.Run("text delta reaches text stream", func(t *testing.T) {
		au := newFakeAudio()
		st := newFakeStream()
		c := startCoordinator(t, au, st, Config{})

		st.events <- live.ServerEvent{Type: live.EventTextDelta, Text: "hello"}
		select {
		case got := <-c.Text():
			if got != "hello" {
				t.Errorf("text = %q", got)
			}
		case <-time.After(time.Second):
			t.Fatal("no text delivered")
		}
	})

	t.Run("error event reaches error stream", func(t *testing.T) {
		au := newFakeAudio()
		st := newFakeStream()
		c := startCoordinator(t, au, st, Config{})

		wantErr := errors.New("transport gone")
		st.events <- live.ServerEvent{Type: live.EventError, Err: wantErr}
		select {
		case got := <-c.Errors():
			if !errors.Is(got, wantErr) {
				t.Errorf("err = %v", got)
			}
		case <-time.After(time.Second):
			t.Fatal("no error delivered")
		}
	})
}

func TestSendFailuresSurface(t *testing.T) {
	au := newFakeAudio()
	st := newFakeStream()
	st.sendErr = live.ErrNotConnected
	c := startCoordinator(t, au, st, Config{})

	c.SendText("hi")
	select {
	case err := <-c.Errors():
		if !errors.Is(err, live.ErrNotConnected) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("send failure not surfaced")
	}
}

type fakeTap struct {
	mu     sync.Mutex
	chunks []audio.Chunk
	events []live.ServerEvent
}

func (f *fakeTap) Chunk(c audio.Chunk) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = append(f.chunks, c)
}

func (f *fakeTap) Event(ev live.ServerEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeTap) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks), len(f.events)
}

func TestTapObservesTraffic(t *testing.T) {
	au := newFakeAudio()
	st := newFakeStream()
	tap := &fakeTap{}

	au.chunks.Push(audio.Chunk{Data: []byte{7}, Seq: 1})
	startCoordinator(t, au, st, Config{Tap: tap})

	st.events <- live.ServerEvent{Type: live.EventTextDelta, Text: "hi"}
	waitCond(t, "tap traffic", func() bool {
		nc, ne := tap.counts()
		return nc == 1 && ne == 1
	})
}

func TestStopUnblocksIdleLoops(t *testing.T) {
	au := newFakeAudio()
	st := newFakeStream()
	c := New(au, st, Config{})
	c.Start()

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}
}

func waitCond(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
