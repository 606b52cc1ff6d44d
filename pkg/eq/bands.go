package eq

import (
	"fmt"
	"math"
)

// BandSet holds the upper edge of every band in Hz, strictly increasing.
type BandSet []float64

// DefaultBands spans 32 Hz to 16 kHz in 11 bands.
func DefaultBands() BandSet {
	return BandSet{32, 60, 170, 310, 600, 1000, 3000, 6000, 12000, 14000, 16000}
}

// Validate checks the band set has at least two strictly increasing positive edges.
func (b BandSet) Validate() error {
	if len(b) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewBands, len(b))
	}
	for i, edge := range b {
		if edge <= 0 || math.IsNaN(edge) || math.IsInf(edge, 0) {
			return fmt.Errorf("band edge %d must be a positive frequency: %v", i, edge)
		}
		if i > 0 && edge <= b[i-1] {
			return fmt.Errorf("%w: %v after %v", ErrBandsNotIncreasing, edge, b[i-1])
		}
	}
	return nil
}

// Cutoffs maps every band edge to the highest bin index it covers.
func (b BandSet) Cutoffs(binCount int, sampleRate float64) []int {
	nyquist := sampleRate / 2
	cutoffs := make([]int, len(b))
	for i, edge := range b {
		cutoffs[i] = int(math.Floor(edge / nyquist * float64(binCount)))
	}
	return cutoffs
}

// GroupBands collapses raw bin magnitudes into one mean magnitude per band.
//
// Bins are assigned to the first band whose cutoff is at or above their index; bins
// beyond the last cutoff are ignored and bands that receive no bins stay at 0. A nil
// result means there is no analysis data to group.
func GroupBands(raw []uint8, bands BandSet, binCount int, sampleRate float64) []float64 {
	if binCount <= 0 || sampleRate <= 0 || len(raw) == 0 || len(bands) == 0 {
		return nil
	}
	n := binCount
	if len(raw) < n {
		n = len(raw)
	}

	cutoffs := bands.Cutoffs(binCount, sampleRate)
	sums := make([]float64, len(bands))
	counts := make([]int, len(bands))

	for i := 0; i < n; i++ {
		for j, cutoff := range cutoffs {
			if i <= cutoff {
				sums[j] += float64(raw[i])
				counts[j]++
				break
			}
		}
	}

	for k := range sums {
		if counts[k] > 0 {
			sums[k] /= float64(counts[k])
		}
	}
	return sums
}
