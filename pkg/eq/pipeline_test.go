package eq

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
)

type stubSource struct {
	bins       []uint8
	sampleRate float64
	detached   bool
	fills      int
}

func (s *stubSource) FrequencyBinCount() int { return len(s.bins) }
func (s *stubSource) SampleRate() float64    { return s.sampleRate }
func (s *stubSource) Attached() bool         { return !s.detached }
func (s *stubSource) FillMagnitudes(buf []uint8) {
	s.fills++
	copy(buf, s.bins)
}

func newStubSource(level uint8) *stubSource {
	bins := make([]uint8, 512)
	for i := range bins {
		bins[i] = level
	}
	return &stubSource{bins: bins, sampleRate: 44100}
}

func TestNewPipelineRejectsBadShape(t *testing.T) {
	if _, err := NewPipeline(DefaultBands(), 0, 8); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("rows=0: expected ErrInvalidGrid, got %v", err)
	}
	if _, err := NewPipeline(DefaultBands(), 40, 1); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("cols=1: expected ErrInvalidGrid, got %v", err)
	}
	if _, err := NewPipeline(BandSet{100}, 40, 8); !errors.Is(err, ErrTooFewBands) {
		t.Errorf("one band: expected ErrTooFewBands, got %v", err)
	}
}

func TestPipelineSilenceIsIdle(t *testing.T) {
	p, err := NewPipeline(DefaultBands(), 40, 8)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	f, err := p.Compute(newStubSource(0))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(f.Columns) != 8 {
		t.Fatalf("expected 8 columns, got %d", len(f.Columns))
	}
	if n := f.Grid.Count(Idle); n != 40*8 {
		t.Fatalf("expected all idle, got %d idle cells", n)
	}
}

func TestPipelineDetachedSourceDrawsNothing(t *testing.T) {
	p, _ := NewPipeline(DefaultBands(), 10, 8)
	src := newStubSource(255)
	src.detached = true

	f, err := p.Compute(src)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if f.Bands != nil || f.Columns != nil {
		t.Fatalf("expected no bands or columns, got %v / %v", f.Bands, f.Columns)
	}
	if src.fills != 0 {
		t.Fatalf("detached source was read %d times", src.fills)
	}
	if n := f.Grid.Count(Idle); n != 10*8 {
		t.Fatalf("expected all idle, got %d idle cells", n)
	}
	if _, err := p.Compute(nil); err != nil {
		t.Fatalf("nil source: %v", err)
	}
}

func TestPipelineReadsSourceOncePerFrame(t *testing.T) {
	p, _ := NewPipeline(DefaultBands(), 40, 8)
	src := newStubSource(128)
	if _, err := p.Compute(src); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if src.fills != 1 {
		t.Fatalf("expected one read for a 40x8 grid, got %d", src.fills)
	}
}

func TestPipelinePreviousIsLastCommittedFrame(t *testing.T) {
	p, _ := NewPipeline(DefaultBands(), 4, 8)

	loud := newStubSource(255)
	f1, err := p.Compute(loud)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if f1.Previous != nil {
		t.Fatalf("first frame has previous columns: %v", f1.Previous)
	}
	p.Commit(f1)

	quiet := newStubSource(0)
	f2, _ := p.Compute(quiet)
	if !floats.Equal(f2.Previous, f1.Columns) {
		t.Fatalf("previous %v, want %v", f2.Previous, f1.Columns)
	}
	// the whole column was lit last frame, so every cell trails now
	if n := f2.Grid.Count(Trailing); n != 4*8 {
		t.Fatalf("expected all cells trailing, got %d", n)
	}

	// f2 was never committed: the next frame still trails f1
	f3, _ := p.Compute(quiet)
	if !floats.Equal(f3.Previous, f1.Columns) {
		t.Fatalf("uncommitted frame replaced previous: %v", f3.Previous)
	}
	if f3.Seq != 3 {
		t.Fatalf("expected seq 3, got %d", f3.Seq)
	}

	p.Reset()
	if p.Previous() != nil {
		t.Fatal("Reset kept previous columns")
	}
}
