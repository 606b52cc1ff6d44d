package viz

import (
	"fmt"
	"strings"
	"sync"

	"goeq/pkg/eq"
)

// Manager owns the renderers and the display settings that can change while frames
// are being produced: render mode, palette, debug readout and size.
type Manager struct {
	renderers map[RenderMode]Renderer
	mode      RenderMode
	palette   eq.Palette
	theme     string
	debug     bool
	width     int
	height    int
	stats     func() eq.Stats
	mu        sync.RWMutex
}

func NewManager() *Manager {
	m := &Manager{
		renderers: map[RenderMode]Renderer{
			BlockMode: NewBlockRenderer(),
			GlyphMode: NewGlyphRenderer(),
		},
		mode:    BlockMode,
		palette: eq.DefaultPalette(),
		theme:   DefaultTheme,
	}
	return m
}

func (m *Manager) SetMode(mode RenderMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.renderers[mode]; !ok {
		return fmt.Errorf("render mode not available: %v", mode)
	}
	m.mode = mode
	return nil
}

func (m *Manager) Mode() RenderMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// CycleMode switches to the next (or previous) render mode and returns its name.
func (m *Manager) CycleMode(direction int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	modes := []RenderMode{BlockMode, GlyphMode}
	currentIdx := 0
	for i, mode := range modes {
		if mode == m.mode {
			currentIdx = i
			break
		}
	}
	m.mode = modes[(currentIdx+direction+len(modes))%len(modes)]
	return m.renderers[m.mode].Name()
}

// SetPalette installs a palette. name is informational and may be "custom".
func (m *Manager) SetPalette(p eq.Palette, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.palette = p
	m.theme = name
}

func (m *Manager) Palette() (eq.Palette, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.palette, m.theme
}

// CycleTheme moves to the next built-in theme and returns its name. A custom palette
// is left for the first theme.
func (m *Manager) CycleTheme(direction int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := ThemeNames()
	next := 0
	for i, name := range names {
		if name == m.theme {
			next = (i + direction + len(names)) % len(names)
			break
		}
	}
	m.theme = names[next]
	m.palette = Themes[m.theme]
	return m.theme
}

func (m *Manager) SetDebug(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debug = on
}

func (m *Manager) ToggleDebug() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debug = !m.debug
	return m.debug
}

// SetStatsSource lets the debug readout include scheduler counters.
func (m *Manager) SetStatsSource(fn func() eq.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = fn
}

func (m *Manager) SetDimensions(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.width = width
	m.height = height
	for _, r := range m.renderers {
		r.SetSize(width, m.gridHeight())
	}
}

// gridHeight is the height left for the grid once the debug line is reserved.
func (m *Manager) gridHeight() int {
	if m.height <= 0 {
		return 0
	}
	if m.debug && m.height > 1 {
		return m.height - 1
	}
	return m.height
}

// Render draws f with the current renderer and palette.
func (m *Manager) Render(f eq.Frame) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.renderers[m.mode]
	if !ok {
		return "", fmt.Errorf("render mode not available: %v", m.mode)
	}
	h := m.gridHeight()
	r.SetSize(m.width, h)
	if h > 0 && f.Grid.Rows() > h {
		f.Grid = f.Grid.Fold(h)
	}

	out, err := r.Render(f, m.palette)
	if err != nil {
		return "", err
	}
	if !m.debug {
		return out, nil
	}

	var sb strings.Builder
	sb.WriteString(out)
	sb.WriteString("\n")
	sb.WriteString(renderBandReadout(f.Bands, m.palette))
	if m.stats != nil {
		st := m.stats()
		sb.WriteString(fmt.Sprintf("  frame %d | accepted %d skipped %d errors %d",
			f.Seq, st.Accepted, st.Skipped, st.RenderErrors))
	}
	return sb.String(), nil
}
