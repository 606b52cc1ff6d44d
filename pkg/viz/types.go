package viz

import (
	"errors"

	"goeq/pkg/eq"
)

// ErrTooSmall is returned when the grid does not fit the drawing area.
var ErrTooSmall = errors.New("visualization area too small for grid")

// RenderMode selects how cells are drawn.
type RenderMode int

const (
	// BlockMode draws each cell as a colored block with gaps, like a canvas.
	BlockMode RenderMode = iota
	// GlyphMode draws one shaded glyph per cell, like a grid of styled elements.
	GlyphMode
)

func (m RenderMode) String() string {
	if m == GlyphMode {
		return "glyphs"
	}
	return "blocks"
}

// ParseRenderMode accepts "blocks" (alias "canvas") or "glyphs" (alias "html").
func ParseRenderMode(s string) (RenderMode, bool) {
	switch s {
	case "", "blocks", "canvas":
		return BlockMode, true
	case "glyphs", "html":
		return GlyphMode, true
	default:
		return BlockMode, false
	}
}

// Renderer rasterizes a classified frame.
type Renderer interface {
	Render(f eq.Frame, p eq.Palette) (string, error)
	SetSize(width, height int)
	Name() string
	Description() string
}
