package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wisp-ai/wisp/pkg/audio/pcm"
)

// StartCapture opens the input device and begins reading fixed-duration
// windows on a dedicated goroutine. Each window becomes a Chunk on the
// output queue; when the queue is full the oldest chunk is dropped so the
// hardware read is never delayed. Calling StartCapture while capture is
// active is a no-op.
func (s *Session) StartCapture() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.caps == nil {
		return ErrNotInitialized
	}
	if s.captureStop != nil {
		return nil
	}

	in, err := s.hw.OpenInput(s.cfg.Format, s.cfg.Window)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.acquireRouteLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.input = in
	s.captureStop = stop
	s.captureDone = done
	s.capturing.Set(true)

	go s.captureLoop(in, stop, done)
	return nil
}

func (s *Session) captureLoop(in InputDevice, stop, done chan struct{}) {
	defer close(done)

	window := s.cfg.Format.BytesInDuration(s.cfg.Window)
	for {
		select {
		case <-stop:
			return
		default:
		}

		buf := make([]byte, window)
		n, err := in.ReadWindow(buf)
		if err != nil {
			select {
			case <-stop:
				// Read failed because the device was closed under us.
			default:
				s.reportError(fmt.Errorf("audio: capture read: %w", err))
			}
			return
		}
		if n == 0 {
			continue
		}

		data := buf[:n]
		level := pcm.Level(data)
		s.level.Store(level)

		chunk := Chunk{
			Data:  data,
			Time:  time.Now(),
			Seq:   s.seq.Add(1),
			Level: level,
		}
		if old, dropped := s.chunks.Push(chunk); dropped {
			slog.Warn("audio: capture queue full, dropped oldest chunk", "seq", old.Seq)
		}
	}
}

// StopCapture cancels the capture goroutine, closes the input device and
// restores the prior route mode if playback is also idle. Safe to call when
// not capturing, and safe to call concurrently with an in-flight read: the
// read is allowed to finish or fail, never interrupted mid-transfer.
func (s *Session) StopCapture() {
	s.mu.Lock()
	if s.captureStop == nil {
		s.mu.Unlock()
		return
	}
	stop, done, in := s.captureStop, s.captureDone, s.input
	s.captureStop = nil
	s.captureDone = nil
	s.input = nil
	s.mu.Unlock()

	close(stop)
	// Closing the device unblocks a pending hardware read.
	in.Close()
	<-done

	s.level.Store(0)
	s.capturing.Set(false)
	s.releaseRouteIfIdle()
}
