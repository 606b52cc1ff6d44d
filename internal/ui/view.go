package ui

import (
	"fmt"
	"strings"
	"time"

	"goeq/internal/audio"
	"goeq/pkg/utils"
)

func (m Model) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	if m.loading {
		return m.loadingView()
	}

	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString("\n\n")
	sb.WriteString(m.frame)
	sb.WriteString("\n")
	sb.WriteString(m.playbackBar())
	sb.WriteString("\n")
	if m.isError {
		sb.WriteString(m.errStyle.Render(m.message))
	} else {
		sb.WriteString(m.dimStyle.Render(m.message))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) loadingView() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s %s\n", m.spinner.View(), m.load.Message))

	if m.load.TotalBytes > 0 && m.load.BytesLoaded > 0 {
		sb.WriteString(m.progress.ViewAs(m.load.Fraction()))

		if time.Since(m.load.StartTime).Seconds() > 0.5 {
			if eta := m.load.ETA(); eta != "" {
				sb.WriteString(fmt.Sprintf("\nETA: %s", eta))
			}
		}
	}

	sb.WriteString("\n(Press q to cancel)")
	return sb.String()
}

func (m Model) header() string {
	if m.meta == nil {
		return m.headerStyle.Render("goeq")
	}
	return m.headerStyle.Render(m.meta.Header())
}

func (m Model) playbackBar() string {
	st := m.ctrl.Status()

	icon := "■"
	switch st.State {
	case audio.StatePlaying:
		icon = "▶"
	case audio.StatePaused:
		icon = "⏸"
	}

	return fmt.Sprintf("%s %s %s/%s",
		icon,
		m.progress.ViewAs(st.Progress),
		utils.FormatDuration(st.Position),
		utils.FormatDuration(st.Duration))
}
