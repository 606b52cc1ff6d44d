package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"goeq/pkg/eq"
)

// Color helpers
func getGradientColor(intensity float64, from, to string) lipgloss.Color {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	c1, err := colorful.Hex(from)
	if err != nil {
		return lipgloss.Color(to)
	}
	c2, err := colorful.Hex(to)
	if err != nil {
		return lipgloss.Color(from)
	}
	return lipgloss.Color(c1.BlendLab(c2, intensity).Clamped().Hex())
}

// FormatBands renders band magnitudes floored and comma separated.
func FormatBands(bands []float64) string {
	parts := make([]string, len(bands))
	for i, v := range bands {
		parts[i] = fmt.Sprintf("%d", int(math.Floor(v)))
	}
	return strings.Join(parts, ", ")
}

// renderBandReadout colors each band value between the fading and rising colors.
func renderBandReadout(bands []float64, p eq.Palette) string {
	if len(bands) == 0 {
		return "bands: -"
	}
	parts := make([]string, len(bands))
	for i, v := range bands {
		color := getGradientColor(v/eq.MaxMagnitude, p.Bar3, p.Bar)
		parts[i] = lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%d", int(math.Floor(v))))
	}
	return "bands: " + strings.Join(parts, ", ")
}
