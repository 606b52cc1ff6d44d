package eq

import "fmt"

// Source supplies raw magnitude snapshots for the pipeline.
type Source interface {
	// FrequencyBinCount is constant for the lifetime of the source.
	FrequencyBinCount() int
	SampleRate() float64
	// FillMagnitudes writes the latest snapshot, one 0..255 value per bin.
	FillMagnitudes(buf []uint8)
	// Attached reports whether analysis data is available yet.
	Attached() bool
}

// Frame is the output of one pipeline tick.
type Frame struct {
	Seq      uint64
	Bands    []float64
	Columns  []float64
	Previous []float64
	Grid     Grid
}

// Pipeline computes frames from a Source. It keeps the column magnitudes of the last
// rendered frame so that trailing cells can be drawn.
//
// A Pipeline is not safe for concurrent use; the Scheduler owns it.
type Pipeline struct {
	bands BandSet
	rows  int
	cols  int

	raw  []uint8
	prev []float64
	seq  uint64
}

// NewPipeline validates the grid shape and band set.
func NewPipeline(bands BandSet, rows, cols int) (*Pipeline, error) {
	if rows < 1 || cols < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, rows, cols)
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	b := make(BandSet, len(bands))
	copy(b, bands)
	return &Pipeline{bands: b, rows: rows, cols: cols}, nil
}

// Rows returns the grid height.
func (p *Pipeline) Rows() int { return p.rows }

// Cols returns the grid width.
func (p *Pipeline) Cols() int { return p.cols }

// Bands returns the configured band edges.
func (p *Pipeline) Bands() BandSet { return p.bands }

// Compute reads the source once and derives the whole frame. Grouping and resampling
// run once per call, never per cell.
func (p *Pipeline) Compute(src Source) (Frame, error) {
	p.seq++
	f := Frame{Seq: p.seq, Previous: p.prev}

	if src != nil && src.Attached() {
		n := src.FrequencyBinCount()
		if n > 0 {
			if cap(p.raw) < n {
				p.raw = make([]uint8, n)
			}
			p.raw = p.raw[:n]
			src.FillMagnitudes(p.raw)
			f.Bands = GroupBands(p.raw, p.bands, n, src.SampleRate())
		}
	}

	if len(f.Bands) > 0 {
		cols, err := Resample(f.Bands, p.cols)
		if err != nil {
			return f, fmt.Errorf("resample %d bands: %w", len(f.Bands), err)
		}
		f.Columns = cols
	}

	f.Grid = ClassifyGrid(f.Columns, f.Previous, p.rows, p.cols)
	return f, nil
}

// Commit records f as the last rendered frame. Only call it once f was drawn.
func (p *Pipeline) Commit(f Frame) {
	p.prev = f.Columns
}

// Previous returns the column magnitudes of the last committed frame.
func (p *Pipeline) Previous() []float64 { return p.prev }

// Reset forgets the last rendered frame.
func (p *Pipeline) Reset() {
	p.prev = nil
}
