package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/netspeed/internal/storage"
	"github.com/rusenback/netspeed/internal/tui/views"
)

// renderFooter renders the single status/help line under the canvas
func (m Model) renderFooter() string {
	var parts []string

	parts = append(parts, m.source)
	if !m.settings.Enabled {
		parts = append(parts, pausedStyle.Render("paused"))
	}
	if m.settings.Locked {
		parts = append(parts, lockedStyle.Render("locked"))
	}
	if m.settings.Enabled && !m.hasRate {
		parts = append(parts, "waiting for first sample")
	}
	if m.settings.Enabled && !m.boxVisible() {
		parts = append(parts, "hidden (low speed)")
	}

	switch {
	case m.err != nil:
		parts = append(parts, errorStyle.Render(truncate("read error: "+m.err.Error(), 40)))
	case m.message != "":
		parts = append(parts, m.message)
	}

	status := strings.Join(parts, " · ")
	help := "[drag/←↑↓→] move [s]ettings [g]raph [q]uit"

	line := lipgloss.NewStyle().MaxWidth(m.width).Render(status)
	if lipgloss.Width(status)+lipgloss.Width(help)+2 <= m.width {
		gap := m.width - lipgloss.Width(status) - lipgloss.Width(help)
		line = status + strings.Repeat(" ", gap) + helpStyle.Render(help)
	}
	return line
}

// renderSettingsPanel renders the settings screen with a live preview
func (m Model) renderSettingsPanel() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("⚙ Settings") + "  " + helpStyle.Render(m.sourceLabel()) + "\n\n")

	s.WriteString(views.RenderSettings(m.settings))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render(" Preview ") + "\n")
	s.WriteString(renderBox(m.settings, m.rate) + "\n")

	if m.message != "" {
		s.WriteString("\n" + m.message + "\n")
	}

	help := "\n[←↑↓→] nudge  [c] center  [L] lock  [H] hide slow  [[ ]] threshold\n" +
		"[f] format  [a] align  [1-5] color  [+/-] size  [space] pause  [esc] back"
	s.WriteString(helpStyle.Render(help))

	return m.renderPanel(s.String())
}

// renderGraphPanel renders the throughput history
func (m Model) renderGraphPanel() string {
	width := m.width - 6
	height := m.height - 4

	var content string
	if len(m.points) > 0 {
		down := make([]float64, len(m.points))
		up := make([]float64, len(m.points))
		for i, p := range m.points {
			down[i] = p.Download
			up[i] = p.Upload
		}
		content = renderThroughputGraph(down, up, width, height, m.timeRange, pointStep(m.points, m.interval))
	} else {
		// Fallback to in-memory data
		content = renderThroughputGraph(m.downHistory, m.upHistory, width, height, m.timeRange, m.interval)
	}

	if m.message != "" {
		content += "\n" + m.message
	}
	return m.renderPanel(content)
}

func (m Model) renderPanel(content string) string {
	w := m.width - 4
	h := m.height - 4
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	return panelStyle.Width(w).Height(h).Render(content)
}

// sourceLabel describes where the speeds come from
func (m Model) sourceLabel() string {
	return fmt.Sprintf("%s every %s", m.source, m.interval)
}

// pointStep estimates the spacing of stored points, which depends on the range's bucket size
func pointStep(points []storage.DataPoint, fallback time.Duration) time.Duration {
	if len(points) < 2 {
		return fallback
	}
	span := points[len(points)-1].Timestamp.Sub(points[0].Timestamp)
	step := span / time.Duration(len(points)-1)
	if step <= 0 {
		return fallback
	}
	return step
}
