package eq

// Grid holds one CellState per (row, column); Grid[0] is the bottom row.
type Grid [][]CellState

// NewGrid allocates an all-Idle grid.
func NewGrid(rows, cols int) Grid {
	cells := make([]CellState, rows*cols)
	g := make(Grid, rows)
	for r := range g {
		g[r] = cells[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return g
}

// ClassifyGrid classifies every cell from the current and previous column magnitudes.
func ClassifyGrid(cur, prev []float64, rows, cols int) Grid {
	g := NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g[r][c] = Classify(r, c, cur, prev, rows)
		}
	}
	return g
}

// Rows returns the row count.
func (g Grid) Rows() int { return len(g) }

// Cols returns the column count.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Count returns how many cells are in state s.
func (g Grid) Count(s CellState) int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == s {
				n++
			}
		}
	}
	return n
}

// foldRank orders states for Fold; the most active state wins a shared line.
var foldRank = [...]int{Idle: 0, Fading: 1, Trailing: 2, Rising: 3}

func rank(s CellState) int {
	if int(s) < len(foldRank) {
		return foldRank[s]
	}
	return 0
}

// Fold merges rows so the grid fits in lines display lines. Row r lands on line
// r*lines/rows and each line keeps the highest ranked state of its rows, Rising over
// Trailing over Fading over Idle. A grid that already fits is returned as is.
func (g Grid) Fold(lines int) Grid {
	rows := g.Rows()
	if lines <= 0 || lines >= rows {
		return g
	}
	out := NewGrid(lines, g.Cols())
	for r, row := range g {
		line := out[r*lines/rows]
		for c, cell := range row {
			if rank(cell) > rank(line[c]) {
				line[c] = cell
			}
		}
	}
	return out
}
