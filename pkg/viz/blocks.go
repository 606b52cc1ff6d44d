package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"goeq/pkg/eq"
)

const (
	blockGap       = 1
	maxBlockWidth  = 8
	defaultBlockW  = 3
	minBlockHeight = 1
)

// BlockRenderer draws every cell as a run of full blocks separated by gaps.
type BlockRenderer struct {
	width  int
	height int
	styles paletteStyles
}

func NewBlockRenderer() *BlockRenderer {
	return &BlockRenderer{}
}

func (b *BlockRenderer) Name() string {
	return "Blocks"
}

func (b *BlockRenderer) Description() string {
	return "Colored bars with gaps between cells"
}

func (b *BlockRenderer) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// cellWidth fits cols cells and their gaps into the current width.
func (b *BlockRenderer) cellWidth(cols int) (int, error) {
	if b.width <= 0 {
		return defaultBlockW, nil
	}
	w := (b.width - blockGap*(cols-1)) / cols
	if w < 1 {
		return 0, fmt.Errorf("%w: %d columns in %d cells", ErrTooSmall, cols, b.width)
	}
	if w > maxBlockWidth {
		w = maxBlockWidth
	}
	return w, nil
}

func (b *BlockRenderer) Render(f eq.Frame, p eq.Palette) (string, error) {
	rows, cols := f.Grid.Rows(), f.Grid.Cols()
	if rows == 0 || cols == 0 {
		return "", nil
	}
	if b.height > 0 && rows*minBlockHeight > b.height {
		return "", fmt.Errorf("%w: %d rows in %d lines", ErrTooSmall, rows, b.height)
	}
	w, err := b.cellWidth(cols)
	if err != nil {
		return "", err
	}

	styles := b.styles.resolve(p)
	cell := strings.Repeat("█", w)
	gap := strings.Repeat(" ", blockGap)

	var sb strings.Builder
	// row 0 is the bottom of the grid
	for r := rows - 1; r >= 0; r-- {
		for c, state := range f.Grid[r] {
			if c > 0 {
				sb.WriteString(gap)
			}
			sb.WriteString(styles.of(state).Render(cell))
		}
		if r > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// paletteStyles caches one lipgloss style per cell state for the last palette seen.
type paletteStyles struct {
	palette eq.Palette
	styles  [4]lipgloss.Style
	ready   bool
}

func (ps *paletteStyles) resolve(p eq.Palette) *paletteStyles {
	if ps.ready && ps.palette == p {
		return ps
	}
	for _, s := range []eq.CellState{eq.Idle, eq.Rising, eq.Trailing, eq.Fading} {
		ps.styles[s] = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color(s)))
	}
	ps.palette = p
	ps.ready = true
	return ps
}

func (ps *paletteStyles) of(s eq.CellState) lipgloss.Style {
	if int(s) >= len(ps.styles) {
		return ps.styles[eq.Idle]
	}
	return ps.styles[s]
}
