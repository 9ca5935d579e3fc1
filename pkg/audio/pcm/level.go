package pcm

import (
	"math"
	"sync/atomic"
)

// Level computes the RMS loudness of little-endian 16-bit PCM data,
// normalized to [0, 1]. An all-zero buffer yields exactly 0; a buffer at
// full amplitude yields 1 (clamped). A trailing odd byte is ignored.
func Level(data []byte) float64 {
	n := len(data) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := int16(data[i*2]) | int16(data[i*2+1])<<8
		v := float64(s) / 32767.0
		sum += v * v
	}
	level := math.Sqrt(sum / float64(n))
	return math.Min(level, 1)
}

// AtomicLevel is an atomically updatable loudness cell. The capture loop
// stores the level of each window; observers read it without locking.
type AtomicLevel struct {
	bits atomic.Uint64
}

// Load atomically loads and returns the level.
func (l *AtomicLevel) Load() float64 {
	return math.Float64frombits(l.bits.Load())
}

// Store atomically stores the given level.
func (l *AtomicLevel) Store(v float64) {
	l.bits.Store(math.Float64bits(v))
}
