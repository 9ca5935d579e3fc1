package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// EnqueuePlayback appends raw PCM samples to the playback queue and starts
// the drain goroutine if none is running. The caller is never blocked
// beyond the queue lock; ownership of samples transfers to the queue.
func (s *Session) EnqueuePlayback(samples []byte) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.caps == nil {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	if s.output == nil {
		out, err := s.hw.OpenOutput(s.cfg.Format)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		s.output = out
	}
	out := s.output
	writeSize := s.caps.OutputBufferBytes
	s.acquireRouteLocked()
	s.mu.Unlock()

	s.pqMu.Lock()
	s.pqItems = append(s.pqItems, samples)
	start := !s.pqDraining
	if start {
		s.pqDraining = true
	}
	gen := s.pqGen
	s.pqMu.Unlock()

	if start {
		s.playing.Set(true)
		go s.drainLoop(out, writeSize, gen)
	}
	return nil
}

// StopPlayback cancels the drain goroutine and clears the queue atomically.
// A partially written item is abandoned, not resumed. Safe to call when not
// playing.
func (s *Session) StopPlayback() {
	s.pqMu.Lock()
	s.pqGen++
	s.pqItems = nil
	wasDraining := s.pqDraining
	s.pqDraining = false
	s.pqMu.Unlock()

	if wasDraining {
		s.playing.Set(false)
		s.releaseRouteIfIdle()
	}
}

// QueuedPlayback returns the number of items waiting in the playback queue.
func (s *Session) QueuedPlayback() int {
	s.pqMu.Lock()
	defer s.pqMu.Unlock()
	return len(s.pqItems)
}

// drainLoop pops queue items in FIFO order and writes them to the output
// device. It exits when the queue empties; the next enqueue relaunches it.
// This avoids busy-waiting without ever dropping an item silently.
func (s *Session) drainLoop(out OutputDevice, writeSize int, gen uint64) {
	for {
		s.pqMu.Lock()
		if s.pqGen != gen {
			// Stopped; the stopper already cleared the activity flag.
			s.pqMu.Unlock()
			return
		}
		if len(s.pqItems) == 0 {
			s.pqDraining = false
			s.pqMu.Unlock()
			s.playing.Set(false)
			s.releaseRouteIfIdle()
			return
		}
		item := s.pqItems[0]
		s.pqItems = s.pqItems[1:]
		s.pqMu.Unlock()

		if err := s.writeItem(out, writeSize, item, gen); err != nil {
			// A hard write error abandons this item only; the queue
			// continues with the next one.
			slog.Warn("audio: playback item abandoned", "bytes", len(item), "err", err)
			s.reportError(err)
		}
	}
}

// writeItem writes one queue item in device-preferred slices. Partial
// writes are retried with a short backoff, bounded by the configured retry
// budget.
func (s *Session) writeItem(out OutputDevice, writeSize int, data []byte, gen uint64) error {
	if writeSize <= 0 {
		writeSize = len(data)
	}
	attempts := 0
	for off := 0; off < len(data); {
		if s.playbackStopped(gen) {
			return nil
		}
		end := min(off+writeSize, len(data))
		n, err := out.Write(data[off:end])
		off += n
		if err != nil || n == 0 {
			attempts++
			if attempts > s.cfg.WriteRetries {
				if err == nil {
					err = errors.New("no progress")
				}
				return fmt.Errorf("%w: %v", ErrWriteRetryExhausted, err)
			}
			time.Sleep(s.cfg.RetryBackoff)
			continue
		}
		attempts = 0
	}
	return nil
}

func (s *Session) playbackStopped(gen uint64) bool {
	s.pqMu.Lock()
	defer s.pqMu.Unlock()
	return s.pqGen != gen
}
