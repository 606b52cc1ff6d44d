package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"goeq/internal/audio"
)

type fakeController struct {
	toggles   int
	toggleErr error
	volume    float64
	themes    int
	renderers int
	debug     bool
	resized   [2]int
	cancelled bool
	status    Status
}

func (f *fakeController) TogglePlayback() error { f.toggles++; return f.toggleErr }
func (f *fakeController) AdjustVolume(d float64) float64 {
	f.volume += d
	return f.volume
}
func (f *fakeController) Status() Status { return f.status }
func (f *fakeController) CycleRenderer() string { f.renderers++; return "glyphs" }
func (f *fakeController) CycleTheme() string { f.themes++; return "nord" }
func (f *fakeController) ToggleDebug() bool { f.debug = !f.debug; return f.debug }
func (f *fakeController) Resize(w, h int) { f.resized = [2]int{w, h} }
func (f *fakeController) Cancel() { f.cancelled = true }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func readyModel(t *testing.T, ctrl *fakeController) Model {
	t.Helper()
	m := update(t, NewModel(ctrl), tea.WindowSizeMsg{Width: 80, Height: 30})
	return update(t, m, LoadedMsg{Metadata: &audio.Metadata{Artist: "Band", Title: "Song"}})
}

func TestModelResizeReservesChrome(t *testing.T) {
	ctrl := &fakeController{}
	m := update(t, NewModel(ctrl), tea.WindowSizeMsg{Width: 100, Height: 40})

	if ctrl.resized != [2]int{100, 40 - chromeHeight} {
		t.Errorf("Resize got %v", ctrl.resized)
	}
	if !m.ready {
		t.Error("model not ready after window size")
	}
}

func TestModelInitializingView(t *testing.T) {
	m := NewModel(&fakeController{})
	if got := m.View(); !strings.Contains(got, "Initializing") {
		t.Errorf("View = %q", got)
	}
}

func TestModelLoadingIgnoresPlaybackKeys(t *testing.T) {
	ctrl := &fakeController{}
	m := update(t, NewModel(ctrl), tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(t, m, LoadProgressMsg(audio.Progress{Message: "Downloading...", BytesLoaded: 10, TotalBytes: 100, StartTime: time.Now()}))

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if ctrl.toggles != 0 {
		t.Error("space toggled playback while loading")
	}
	if got := m.View(); !strings.Contains(got, "Downloading...") {
		t.Errorf("loading view = %q", got)
	}
}

func TestModelKeys(t *testing.T) {
	ctrl := &fakeController{}
	m := readyModel(t, ctrl)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if ctrl.toggles != 1 {
		t.Errorf("toggles = %d", ctrl.toggles)
	}

	m = update(t, m, runeKey('t'))
	if ctrl.themes != 1 || m.message != "theme: nord" {
		t.Errorf("theme key: themes %d message %q", ctrl.themes, m.message)
	}

	m = update(t, m, runeKey('r'))
	if ctrl.renderers != 1 || m.message != "renderer: glyphs" {
		t.Errorf("renderer key: %d %q", ctrl.renderers, m.message)
	}

	m = update(t, m, runeKey('d'))
	if !ctrl.debug || m.message != "debug on" {
		t.Errorf("debug key: %v %q", ctrl.debug, m.message)
	}

	m = update(t, m, runeKey('+'))
	if m.message != "volume 10%" {
		t.Errorf("volume message %q", m.message)
	}
}

func TestModelQuitCancels(t *testing.T) {
	ctrl := &fakeController{}
	m := readyModel(t, ctrl)

	_, cmd := m.Update(runeKey('q'))
	if !ctrl.cancelled {
		t.Error("quit did not cancel")
	}
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command is not tea.Quit")
	}
}

func TestModelToggleError(t *testing.T) {
	ctrl := &fakeController{toggleErr: audio.ErrNoTrack}
	m := readyModel(t, ctrl)

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.isError || !strings.Contains(m.message, "no track loaded") {
		t.Errorf("message = %q", m.message)
	}
}

func TestModelFrameView(t *testing.T) {
	ctrl := &fakeController{status: Status{
		State:    audio.StatePlaying,
		Position: 61 * time.Second,
		Duration: 3 * time.Minute,
		Progress: 0.3,
	}}
	m := readyModel(t, ctrl)

	m = update(t, m, FrameErrMsg{Err: errors.New("boom")})
	if !strings.Contains(m.View(), "render: boom") {
		t.Error("render error not shown")
	}

	m = update(t, m, FrameMsg{View: "GRID"})
	view := m.View()
	for _, want := range []string{"Band - Song", "GRID", "▶", "1:01/3:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "boom") {
		t.Error("render error not cleared by a good frame")
	}
}

func TestModelLoadFailed(t *testing.T) {
	m := update(t, NewModel(&fakeController{}), tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(t, m, LoadFailedMsg{Err: errors.New("server returned 404")})

	if m.loading {
		t.Error("still loading after failure")
	}
	if !strings.Contains(m.View(), "server returned 404") {
		t.Error("load error not shown")
	}
}
