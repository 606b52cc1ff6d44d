package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"goeq/internal/audio"
)

// chromeHeight is the number of lines around the grid: header, spacer, playback bar,
// status message and help.
const chromeHeight = 5

const refreshInterval = 250 * time.Millisecond

// Status is a snapshot of playback for the bottom bar.
type Status struct {
	State    audio.PlaybackState
	Position time.Duration
	Duration time.Duration
	Progress float64
	Volume   float64
}

// Controller is everything the UI can ask of the running equalizer.
type Controller interface {
	TogglePlayback() error
	AdjustVolume(delta float64) float64
	Status() Status
	CycleRenderer() string
	CycleTheme() string
	ToggleDebug() bool
	// Resize receives the area left for the grid.
	Resize(width, height int)
	// Cancel aborts a load in progress.
	Cancel()
}

// Messages sent into the program from outside the event loop.
type (
	// FrameMsg carries one rendered grid.
	FrameMsg struct{ View string }
	// FrameErrMsg reports a frame that could not be drawn.
	FrameErrMsg struct{ Err error }
	// LoadProgressMsg reports download and decode progress.
	LoadProgressMsg audio.Progress
	// LoadedMsg arrives once the track is ready to play.
	LoadedMsg struct{ Metadata *audio.Metadata }
	// LoadFailedMsg ends loading with an error.
	LoadFailedMsg struct{ Err error }
	// StateMsg reports a playback transition.
	StateMsg audio.PlaybackState

	refreshMsg time.Time
)

// Model is the bubbletea model of the equalizer screen.
type Model struct {
	ctrl     Controller
	keys     keyMap
	help     help.Model
	progress progress.Model
	spinner  spinner.Model

	headerStyle lipgloss.Style
	dimStyle    lipgloss.Style
	errStyle    lipgloss.Style

	ready   bool
	width   int
	height  int
	frame   string
	loading bool
	load    audio.Progress
	meta    *audio.Metadata
	state   audio.PlaybackState
	message string
	isError bool
}

// NewModel starts in the loading state.
func NewModel(ctrl Controller) Model {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctrl:        ctrl,
		keys:        defaultKeyMap(),
		help:        help.New(),
		progress:    p,
		spinner:     s,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d7f0ff")),
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		loading:     true,
		load:        audio.Progress{Message: "Loading...", StartTime: time.Now()},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		refresh(),
	)
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// gridHeight is the space left for the grid renderer.
func (m Model) gridHeight() int {
	if h := m.height - chromeHeight; h > 0 {
		return h
	}
	return 0
}
