package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"goeq/internal/audio"
)

const volumeStep = 0.1

// Update is the main update function for the bubbletea loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 24; w > 10 {
			m.progress.Width = w
		} else {
			m.progress.Width = 10
		}
		m.ctrl.Resize(m.width, m.gridHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameMsg:
		m.frame = msg.View
		if m.isError && m.message != "" {
			m.message, m.isError = "", false
		}
		return m, nil

	case FrameErrMsg:
		m.setError(fmt.Errorf("render: %w", msg.Err))
		return m, nil

	case LoadProgressMsg:
		m.loading = true
		m.load = audio.Progress(msg)
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.meta = msg.Metadata
		m.setInfo("Press space to play")
		return m, nil

	case LoadFailedMsg:
		m.loading = false
		m.setError(msg.Err)
		return m, nil

	case StateMsg:
		m.state = audio.PlaybackState(msg)
		if m.state == audio.StatePlaying && !m.isError {
			m.message = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case refreshMsg:
		return m, refresh()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case m.loading:
		// Only quit and help work until the track is ready.

	case key.Matches(msg, m.keys.Play):
		if err := m.ctrl.TogglePlayback(); err != nil {
			m.setError(err)
		}

	case key.Matches(msg, m.keys.Theme):
		m.setInfo("theme: " + m.ctrl.CycleTheme())

	case key.Matches(msg, m.keys.Renderer):
		m.setInfo("renderer: " + m.ctrl.CycleRenderer())

	case key.Matches(msg, m.keys.Debug):
		if m.ctrl.ToggleDebug() {
			m.setInfo("debug on")
		} else {
			m.setInfo("debug off")
		}

	case key.Matches(msg, m.keys.VolUp):
		m.setInfo(fmt.Sprintf("volume %.0f%%", m.ctrl.AdjustVolume(volumeStep)*100))

	case key.Matches(msg, m.keys.VolDown):
		m.setInfo(fmt.Sprintf("volume %.0f%%", m.ctrl.AdjustVolume(-volumeStep)*100))
	}
	return m, nil
}

func (m *Model) setInfo(s string) {
	m.message, m.isError = s, false
}

func (m *Model) setError(err error) {
	m.message, m.isError = fmt.Sprintf("Error: %v", err), true
}
