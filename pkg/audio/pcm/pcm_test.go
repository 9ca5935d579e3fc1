package pcm

import (
	"testing"
	"time"
)

func TestFormatMath(t *testing.T) {
	f := L16Mono16K

	if f.SampleRate() != 16000 {
		t.Errorf("sample rate = %d", f.SampleRate())
	}
	if f.Channels() != 1 {
		t.Errorf("channels = %d", f.Channels())
	}
	if f.Depth() != 16 {
		t.Errorf("depth = %d", f.Depth())
	}
	if n := f.SamplesInDuration(100 * time.Millisecond); n != 1600 {
		t.Errorf("samples in 100ms = %d", n)
	}
	if n := f.BytesInDuration(100 * time.Millisecond); n != 3200 {
		t.Errorf("bytes in 100ms = %d", n)
	}
	if d := f.Duration(3200); d != 100*time.Millisecond {
		t.Errorf("duration of 3200 bytes = %v", d)
	}
	if f.BytesRate() != 32000 {
		t.Errorf("bytes rate = %d", f.BytesRate())
	}
	if f.MimeType() != "audio/pcm;rate=16000" {
		t.Errorf("mime type = %q", f.MimeType())
	}
}

func samplesLE(val int16, n int) []byte {
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		buf[i*2] = byte(val)
		buf[i*2+1] = byte(val >> 8)
	}
	return buf
}

func TestLevel(t *testing.T) {
	t.Run("silence is zero", func(t *testing.T) {
		if got := Level(samplesLE(0, 160)); got != 0.0 {
			t.Errorf("got %v, want 0.0", got)
		}
	})

	t.Run("full amplitude is one", func(t *testing.T) {
		if got := Level(samplesLE(32767, 160)); got != 1.0 {
			t.Errorf("got %v, want 1.0", got)
		}
	})

	t.Run("negative full amplitude clamps to one", func(t *testing.T) {
		if got := Level(samplesLE(-32768, 160)); got != 1.0 {
			t.Errorf("got %v, want 1.0", got)
		}
	})

	t.Run("half amplitude", func(t *testing.T) {
		got := Level(samplesLE(16384, 160))
		if got < 0.49 || got > 0.51 {
			t.Errorf("got %v, want ~0.5", got)
		}
	})

	t.Run("empty buffer", func(t *testing.T) {
		if got := Level(nil); got != 0.0 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("odd trailing byte ignored", func(t *testing.T) {
		buf := append(samplesLE(0, 4), 0x7f)
		if got := Level(buf); got != 0.0 {
			t.Errorf("got %v", got)
		}
	})
}

func TestAtomicLevel(t *testing.T) {
	var l AtomicLevel
	if l.Load() != 0 {
		t.Errorf("initial = %v", l.Load())
	}
	l.Store(0.42)
	if l.Load() != 0.42 {
		t.Errorf("got %v", l.Load())
	}
}
