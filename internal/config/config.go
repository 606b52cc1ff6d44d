// Package config holds goeq's runtime settings and their defaults.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"goeq/pkg/eq"
	"goeq/pkg/viz"
)

// Config is the full set of knobs that shape the pipeline and its display.
type Config struct {
	Rows     int
	Cols     int
	Bands    eq.BandSet
	FPS      float64
	HostRate float64
	Drift    string
	Renderer string
	Theme    string
	// Colors is a JSON palette; when set it wins over Theme.
	Colors   string
	Debug    bool
	FFTSize  int
	Volume   float64
	LogLevel string
	LogFile  string
}

// Default mirrors the stock equalizer: 40 rows, 8 columns, 11 bands, 30 fps.
func Default() Config {
	return Config{
		Rows:     40,
		Cols:     8,
		Bands:    eq.DefaultBands(),
		FPS:      eq.DefaultFPS,
		HostRate: eq.DefaultHostRate,
		Drift:    eq.DriftAdvance.String(),
		Renderer: viz.BlockMode.String(),
		Theme:    viz.DefaultTheme,
		FFTSize:  1024,
		Volume:   1,
		LogLevel: "info",
	}
}

// Validate rejects settings the pipeline can't run with.
func (c Config) Validate() error {
	if c.Rows < 1 {
		return fmt.Errorf("rows must be >= 1: %d", c.Rows)
	}
	if c.Cols < 2 {
		return fmt.Errorf("cols must be >= 2: %d", c.Cols)
	}
	if err := c.Bands.Validate(); err != nil {
		return fmt.Errorf("bands: %w", err)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be > 0: %v", c.FPS)
	}
	if c.HostRate <= 0 {
		return fmt.Errorf("host rate must be > 0: %v", c.HostRate)
	}
	if _, err := eq.ParseDriftPolicy(c.Drift); err != nil {
		return err
	}
	if _, ok := viz.ParseRenderMode(c.Renderer); !ok {
		return fmt.Errorf("unknown renderer %q (want blocks or glyphs)", c.Renderer)
	}
	if c.FFTSize < 32 || c.FFTSize > 32768 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft size must be a power of two between 32 and 32768: %d", c.FFTSize)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be within [0, 1]: %v", c.Volume)
	}
	return nil
}

// DriftPolicy returns the parsed drift policy, falling back to advance.
func (c Config) DriftPolicy() eq.DriftPolicy {
	d, _ := eq.ParseDriftPolicy(c.Drift)
	return d
}

// RenderMode returns the parsed render mode, falling back to blocks.
func (c Config) RenderMode() viz.RenderMode {
	m, _ := viz.ParseRenderMode(c.Renderer)
	return m
}

// Palette resolves the palette to start with and the name to show for it. A broken
// Colors value or unknown theme is logged and replaced by the default palette; it
// never stops the program.
func (c Config) Palette(logger *zap.Logger) (eq.Palette, string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(c.Colors) != "" {
		p, err := eq.ParsePalette([]byte(c.Colors))
		if err != nil {
			logger.Warn("invalid colors, using default palette", zap.Error(err))
			return eq.DefaultPalette(), viz.DefaultTheme
		}
		return p, "custom"
	}
	if p, ok := viz.Theme(c.Theme); ok {
		return p, c.Theme
	}
	logger.Warn("unknown theme, using default palette", zap.String("theme", c.Theme))
	return eq.DefaultPalette(), viz.DefaultTheme
}

// ParseBands reads a comma separated list of band edges in Hz. A "k" suffix means kHz.
func ParseBands(s string) (eq.BandSet, error) {
	var bands eq.BandSet
	for _, field := range strings.Split(s, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		mult := 1.0
		if strings.HasSuffix(field, "k") {
			mult = 1000
			field = strings.TrimSuffix(field, "k")
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid band edge %q: %w", field, err)
		}
		bands = append(bands, v*mult)
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	return bands, nil
}
