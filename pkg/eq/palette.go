package eq

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps the four cell states to hex colors. The JSON keys match the colors
// attribute of the equalizer widget this grid format comes from.
type Palette struct {
	Background string `json:"barBgColor"`
	Bar        string `json:"barColor"`
	Bar2       string `json:"barColor2"`
	Bar3       string `json:"barColor3"`
}

// DefaultPalette is used whenever a configured palette can't be parsed.
func DefaultPalette() Palette {
	return Palette{
		Background: "#222222",
		Bar:        "#d7f0ff",
		Bar2:       "#a6c0ba",
		Bar3:       "#fcb750",
	}
}

// Color resolves a cell state: Rising→Bar, Trailing→Bar2, Fading→Bar3, Idle→Background.
func (p Palette) Color(s CellState) string {
	switch s {
	case Rising:
		return p.Bar
	case Trailing:
		return p.Bar2
	case Fading:
		return p.Bar3
	default:
		return p.Background
	}
}

// Validate checks every color is a #rgb or #rrggbb hex string.
func (p Palette) Validate() error {
	for name, c := range map[string]string{
		"barBgColor": p.Background,
		"barColor":   p.Bar,
		"barColor2":  p.Bar2,
		"barColor3":  p.Bar3,
	} {
		if _, err := colorful.Hex(c); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, c, err)
		}
	}
	return nil
}

// ParsePalette decodes a JSON palette. Keys left out take their default color.
func ParsePalette(data []byte) (Palette, error) {
	p := DefaultPalette()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPalette(), fmt.Errorf("parse palette: %w", err)
	}
	if err := p.Validate(); err != nil {
		return DefaultPalette(), fmt.Errorf("parse palette: %w", err)
	}
	return p, nil
}
