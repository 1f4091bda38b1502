package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/netspeed/internal/model"
	"github.com/rusenback/netspeed/internal/sampler"
)

var (
	settingsBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	settingsLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Width(20)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7D56F4"))

	settingsKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086"))
)

// RenderSettings renders every setting with its current value and the key that changes it
func RenderSettings(st model.Settings) string {
	rows := []struct {
		label string
		value string
		key   string
	}{
		{"Floating speed", OnOff(st.Enabled), "space"},
		{"Position", fmt.Sprintf("%d, %d", st.PositionX, st.PositionY), "←↑↓→ / c"},
		{"Lock position", OnOff(st.Locked), "L"},
		{"Speed format", st.Format.String(), "f"},
		{"Alignment", st.Alignment.String(), "a"},
		{"Text color", st.Color, "1-5"},
		{"Text size", fmt.Sprintf("%d", st.TextSize), "+/-"},
		{"Hide low speed", OnOff(st.LowSpeedHide), "H"},
		{"Low speed threshold", sampler.FormatSpeed(st.LowSpeedThreshold), "[ ]"},
	}

	var s strings.Builder
	for i, r := range rows {
		s.WriteString(settingsLabelStyle.Render(r.label))
		s.WriteString(settingsValueStyle.Render(fmt.Sprintf("%-20s", r.value)))
		s.WriteString(settingsKeyStyle.Render(r.key))
		if i < len(rows)-1 {
			s.WriteString("\n")
		}
	}

	return settingsBoxStyle.Render(s.String())
}

// OnOff formats a toggle
func OnOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
