package audio

import (
	"math"
	"testing"
	"time"
)

func sine(n int, freq, sampleRate, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(NewTap(DefaultFFTSize), 44100)

	if a.FFTSize() != 1024 || a.FrequencyBinCount() != 512 {
		t.Errorf("fft %d bins %d", a.FFTSize(), a.FrequencyBinCount())
	}
	if a.SampleRate() != 44100 {
		t.Errorf("SampleRate = %v", a.SampleRate())
	}
	if a.Attached() {
		t.Error("analyzer attached before Attach")
	}
	a.Attach()
	if !a.Attached() {
		t.Error("analyzer not attached after Attach")
	}
}

func TestAnalyzerIgnoresInvalidFFTSize(t *testing.T) {
	a := NewAnalyzer(NewTap(16), 8000, WithFFTSize(1000))
	if a.FFTSize() != DefaultFFTSize {
		t.Errorf("FFTSize = %d, want default", a.FFTSize())
	}
	a = NewAnalyzer(NewTap(16), 8000, WithFFTSize(256))
	if a.FrequencyBinCount() != 128 {
		t.Errorf("FrequencyBinCount = %d, want 128", a.FrequencyBinCount())
	}
}

func TestAnalyzerSilenceIsZero(t *testing.T) {
	tap := NewTap(DefaultFFTSize)
	tap.Write(make([]float64, DefaultFFTSize))
	a := NewAnalyzer(tap, 44100)

	buf := make([]uint8, a.FrequencyBinCount())
	for i := range buf {
		buf[i] = 9
	}
	a.FillMagnitudes(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("bin %d = %d, want 0", i, v)
		}
	}
}

func TestAnalyzerSinePeaksAtItsBin(t *testing.T) {
	const (
		rate = 44100.0
		bin  = 40
	)
	freq := bin * rate / DefaultFFTSize

	tap := NewTap(DefaultFFTSize)
	tap.Write(sine(DefaultFFTSize, freq, rate, 0.5))
	a := NewAnalyzer(tap, int(rate), WithSmoothing(0), WithDecibelRange(-100, 0))

	buf := make([]uint8, a.FrequencyBinCount())
	a.FillMagnitudes(buf)

	peak := 0
	for i, v := range buf {
		if v > buf[peak] {
			peak = i
		}
	}
	if peak != bin {
		t.Errorf("peak at bin %d, want %d", peak, bin)
	}
	if buf[bin] == 0 || buf[bin] == 255 {
		t.Errorf("peak value %d should be inside the range", buf[bin])
	}
	if buf[400] >= buf[bin] {
		t.Errorf("far bin %d not below peak %d", buf[400], buf[bin])
	}
}

func TestAnalyzerSmoothingRises(t *testing.T) {
	const rate = 44100.0
	freq := 40 * rate / DefaultFFTSize

	tap := NewTap(DefaultFFTSize)
	tap.Write(sine(DefaultFFTSize, freq, rate, 0.5))
	a := NewAnalyzer(tap, int(rate), WithDecibelRange(-100, 0))

	first := make([]uint8, a.FrequencyBinCount())
	second := make([]uint8, a.FrequencyBinCount())
	a.FillMagnitudes(first)
	a.FillMagnitudes(second)
	if second[40] <= first[40] {
		t.Errorf("smoothed bin did not rise: %d then %d", first[40], second[40])
	}

	a.Reset()
	again := make([]uint8, a.FrequencyBinCount())
	a.FillMagnitudes(again)
	if again[40] != first[40] {
		t.Errorf("after Reset got %d, want %d", again[40], first[40])
	}
}

func TestAnalyzerShortBuffer(t *testing.T) {
	a := NewAnalyzer(NewTap(DefaultFFTSize), 44100)
	buf := make([]uint8, 8)
	a.FillMagnitudes(buf)
}

func TestOfflineSourceSeek(t *testing.T) {
	pcm := makePCM(8000, 1000, 0.5, 8000)
	src := NewOfflineSource(pcm, WithFFTSize(256), WithSmoothing(0))

	if !src.Attached() {
		t.Fatal("offline source should be attached")
	}

	buf := make([]uint8, src.FrequencyBinCount())
	src.FillMagnitudes(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("bin %d = %d before any seek", i, v)
		}
	}

	src.Seek(500 * time.Millisecond)
	if src.Position() != 500*time.Millisecond {
		t.Errorf("Position = %v", src.Position())
	}
	src.FillMagnitudes(buf)
	// 1 kHz at 8 kHz / 256 lands on bin 32.
	if buf[32] == 0 {
		t.Error("expected energy at the tone's bin")
	}

	src.Seek(10 * time.Millisecond)
	if src.Position() != 10*time.Millisecond {
		t.Errorf("Position after seeking back = %v", src.Position())
	}
}
