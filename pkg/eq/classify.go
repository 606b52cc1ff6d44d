package eq

// CellState is the display state of one grid cell.
type CellState uint8

const (
	// Idle cells show the background color.
	Idle CellState = iota
	// Rising cells are lit by the current frame.
	Rising
	// Trailing cells were lit by the previous frame only.
	Trailing
	// Fading cells are partially reached by either frame.
	Fading
)

func (s CellState) String() string {
	switch s {
	case Rising:
		return "rising"
	case Trailing:
		return "trailing"
	case Fading:
		return "fading"
	default:
		return "idle"
	}
}

// MaxMagnitude is the top of the raw magnitude scale.
const MaxMagnitude = 255.0

// RowThresholds returns the energy a column needs to reach the bottom and the top of row.
func RowThresholds(row, rows int) (lower, upper float64) {
	step := MaxMagnitude / float64(rows)
	return float64(row) * step, float64(row+1) * step
}

// Classify decides the state of the cell at (row, col). Row 0 is the bottom row.
//
// Columns missing from cur or prev count as zero energy, so an empty frame is all Idle.
func Classify(row, col int, cur, prev []float64, rows int) CellState {
	if rows <= 0 || row < 0 || col < 0 {
		return Idle
	}
	now := at(cur, col)
	before := at(prev, col)
	lower, upper := RowThresholds(row, rows)

	switch {
	case now >= upper:
		return Rising
	case before >= upper:
		return Trailing
	}

	peak := now
	if before > peak {
		peak = before
	}
	// zero energy never lights the bottom row
	if peak > 0 && peak >= lower {
		return Fading
	}
	return Idle
}

func at(values []float64, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i]
}
