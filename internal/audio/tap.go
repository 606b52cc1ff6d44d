package audio

import "sync"

// Tap is a ring buffer of the most recent mono samples handed to the output.
// The playback goroutine writes; the analyzer reads.
type Tap struct {
	mu      sync.Mutex
	buf     []float64
	pos     int
	size    int
	written int64
}

// NewTap allocates a ring buffer holding size samples.
func NewTap(size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{
		buf:  make([]float64, size),
		size: size,
	}
}

// Write appends mono samples, overwriting the oldest.
func (t *Tap) Write(samples []float64) {
	t.mu.Lock()
	for _, s := range samples {
		t.buf[t.pos] = s
		t.pos = (t.pos + 1) % t.size
	}
	t.written += int64(len(samples))
	t.mu.Unlock()
}

// WriteStereo16 mixes interleaved 16-bit little-endian stereo down to mono and appends it.
func (t *Tap) WriteStereo16(data []byte) {
	t.Write(appendMono(make([]float64, 0, len(data)/frameSize), data))
}

// Latest fills dst with the last len(dst) samples in chronological order.
// Slots never written read as silence.
func (t *Tap) Latest(dst []float64) {
	n := len(dst)
	if n > t.size {
		for i := range dst[:n-t.size] {
			dst[i] = 0
		}
		dst = dst[n-t.size:]
		n = t.size
	}
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := 0; i < n; i++ {
		dst[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
}

// Samples returns the last n samples in chronological order.
func (t *Tap) Samples(n int) []float64 {
	out := make([]float64, n)
	t.Latest(out)
	return out
}

// Written reports how many samples have passed through the tap.
func (t *Tap) Written() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

// Reset clears the buffer to silence.
func (t *Tap) Reset() {
	t.mu.Lock()
	for i := range t.buf {
		t.buf[i] = 0
	}
	t.pos = 0
	t.written = 0
	t.mu.Unlock()
}
