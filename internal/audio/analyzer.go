package audio

import (
	"math"
	"math/cmplx"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser defaults, matching a browser AnalyserNode.
const (
	DefaultFFTSize   = 1024
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithFFTSize sets the analysis window length. It must be a power of two.
func WithFFTSize(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n >= 32 && n&(n-1) == 0 {
			a.fftSize = n
		}
	}
}

// WithSmoothing sets the time constant blending each snapshot with the last one.
func WithSmoothing(tau float64) AnalyzerOption {
	return func(a *Analyzer) {
		if tau >= 0 && tau < 1 {
			a.smoothing = tau
		}
	}
}

// WithDecibelRange sets the dB span mapped onto 0..255.
func WithDecibelRange(minDB, maxDB float64) AnalyzerOption {
	return func(a *Analyzer) {
		if maxDB > minDB {
			a.minDB, a.maxDB = minDB, maxDB
		}
	}
}

// Analyzer turns the samples in a Tap into byte frequency snapshots.
// It satisfies eq.Source.
type Analyzer struct {
	tap        *Tap
	sampleRate float64
	fftSize    int
	smoothing  float64
	minDB      float64
	maxDB      float64

	attached atomic.Bool

	mu       sync.Mutex
	fft      *fourier.FFT
	window   []float64
	frame    []float64
	coeffs   []complex128
	smoothed []float64
}

// NewAnalyzer reads from tap, whose samples are at sampleRate Hz.
func NewAnalyzer(tap *Tap, sampleRate int, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		tap:        tap,
		sampleRate: float64(sampleRate),
		fftSize:    DefaultFFTSize,
		smoothing:  DefaultSmoothing,
		minDB:      DefaultMinDB,
		maxDB:      DefaultMaxDB,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.fft = fourier.NewFFT(a.fftSize)
	a.window = window.Blackman(a.fftSize)
	a.frame = make([]float64, a.fftSize)
	a.coeffs = make([]complex128, a.fftSize/2+1)
	a.smoothed = make([]float64, a.fftSize/2)
	return a
}

// FFTSize returns the analysis window length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// FrequencyBinCount is half the FFT size.
func (a *Analyzer) FrequencyBinCount() int { return a.fftSize / 2 }

// SampleRate of the analysed signal in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// Attach makes snapshots available. Until then the pipeline draws nothing.
func (a *Analyzer) Attach() { a.attached.Store(true) }

// Attached reports whether Attach was called.
func (a *Analyzer) Attached() bool { return a.attached.Load() }

// FillMagnitudes writes the current snapshot into buf, one byte per bin.
// Each call advances the smoothing state by one step.
func (a *Analyzer) FillMagnitudes(buf []uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tap.Latest(a.frame)
	for i, w := range a.window {
		a.frame[i] *= w
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	n := float64(a.fftSize)
	tau := a.smoothing
	scale := 255.0 / (a.maxDB - a.minDB)
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeffs[k]) / n
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		if k >= len(buf) {
			continue
		}
		buf[k] = toByte(scale * (20*math.Log10(a.smoothed[k]) - a.minDB))
	}
	for k := len(a.smoothed); k < len(buf); k++ {
		buf[k] = 0
	}
}

// Reset clears the smoothing history.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
	a.mu.Unlock()
}

func toByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// OfflineSource analyses decoded PCM at a chosen position instead of live playback.
type OfflineSource struct {
	*Analyzer
	pcm *PCM
	pos int
}

// NewOfflineSource is attached from the start.
func NewOfflineSource(pcm *PCM, opts ...AnalyzerOption) *OfflineSource {
	a := NewAnalyzer(nil, pcm.SampleRate, opts...)
	a.tap = NewTap(a.fftSize)
	a.Attach()
	return &OfflineSource{Analyzer: a, pcm: pcm}
}

// Seek moves the analysis window so that it ends at t.
func (o *OfflineSource) Seek(t time.Duration) {
	next := o.pcm.FrameAt(t)
	from := o.pos
	if next < o.pos {
		o.tap.Reset()
		from = 0
	}
	if lo := next - o.fftSize; from < lo {
		from = lo
	}
	o.tap.Write(o.pcm.Mono(from, next))
	o.pos = next
}

// Position returns the end of the current analysis window.
func (o *OfflineSource) Position() time.Duration {
	if o.pcm.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(o.pos) / float64(o.pcm.SampleRate) * float64(time.Second))
}
