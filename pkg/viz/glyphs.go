package viz

import (
	"fmt"
	"strings"

	"goeq/pkg/eq"
)

var stateGlyphs = map[eq.CellState]string{
	eq.Rising:   "█",
	eq.Trailing: "▓",
	eq.Fading:   "▒",
	eq.Idle:     "░",
}

// GlyphRenderer draws one shaded character per cell with no gaps. Each state also
// gets its own glyph, so the grid still reads on terminals without color.
type GlyphRenderer struct {
	width  int
	height int
	styles paletteStyles
}

func NewGlyphRenderer() *GlyphRenderer {
	return &GlyphRenderer{}
}

func (g *GlyphRenderer) Name() string {
	return "Glyphs"
}

func (g *GlyphRenderer) Description() string {
	return "Compact shaded cells, one character each"
}

func (g *GlyphRenderer) SetSize(width, height int) {
	g.width = width
	g.height = height
}

func (g *GlyphRenderer) Render(f eq.Frame, p eq.Palette) (string, error) {
	rows, cols := f.Grid.Rows(), f.Grid.Cols()
	if rows == 0 || cols == 0 {
		return "", nil
	}
	if (g.width > 0 && cols > g.width) || (g.height > 0 && rows > g.height) {
		return "", fmt.Errorf("%w: %dx%d grid in %dx%d", ErrTooSmall, cols, rows, g.width, g.height)
	}

	styles := g.styles.resolve(p)
	var sb strings.Builder
	for r := rows - 1; r >= 0; r-- {
		for _, state := range f.Grid[r] {
			sb.WriteString(styles.of(state).Render(stateGlyphs[state]))
		}
		if r > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
