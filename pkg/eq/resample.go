package eq

import (
	"fmt"
	"math"
)

// Resample stretches or compresses values to target entries by linear interpolation.
//
// Inputs that already have target entries are returned as a copy. Fewer than two
// values or a target below two is rejected, since the scale is undefined there.
func Resample(values []float64, target int) ([]float64, error) {
	if target < 2 {
		return nil, fmt.Errorf("%w: target %d", ErrTargetTooSmall, target)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSourceTooSmall, len(values))
	}

	out := make([]float64, target)
	if len(values) == target {
		copy(out, values)
		return out, nil
	}

	last := len(values) - 1
	scale := float64(last) / float64(target-1)
	for i := range out {
		pos := float64(i) * scale
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if hi > last {
			hi = last
		}
		if lo > last {
			lo = last
		}

		if lo == hi {
			out[i] = values[lo]
			continue
		}
		upper := pos - float64(lo)
		out[i] = values[lo]*(1-upper) + values[hi]*upper
	}
	return out, nil
}
