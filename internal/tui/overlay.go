package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/netspeed/internal/model"
	"github.com/rusenback/netspeed/internal/sampler"
)

var colorNames = model.Colors

// textColors maps the named colors to terminal colors
var textColors = map[string]lipgloss.Color{
	"white": lipgloss.Color("#FFFFFF"),
	"black": lipgloss.Color("#000000"),
	"green": lipgloss.Color("#00FF00"),
	"red":   lipgloss.Color("#FF0000"),
	"blue":  lipgloss.Color("#0000FF"),
}

// Widest text each format can produce, e.g. "1023.9 MB/s"
var formatWidths = map[model.SpeedFormat]int{
	model.FormatTotal:      11,
	model.FormatHorizontal: 25,
	model.FormatVertical:   12,
}

// speedText renders the rate according to the chosen format
func speedText(format model.SpeedFormat, rate model.Rate) string {
	switch format {
	case model.FormatHorizontal:
		return "↓" + sampler.FormatSpeed(rate.Download) + " ↑" + sampler.FormatSpeed(rate.Upload)
	case model.FormatVertical:
		return "↓" + sampler.FormatSpeed(rate.Download) + "\n↑" + sampler.FormatSpeed(rate.Upload)
	default:
		return sampler.FormatSpeed(rate.Total())
	}
}

// boxStyle derives the overlay style from color, alignment and text size.
// Larger sizes get more padding, bold text from 16 and taller boxes from 24.
func boxStyle(st model.Settings) lipgloss.Style {
	padX := (st.TextSize - model.MinTextSize) / 4
	padY := 0
	if st.TextSize >= 24 {
		padY = 1
	}

	style := lipgloss.NewStyle().
		Foreground(textColors[st.Color]).
		Bold(st.TextSize >= 16).
		Padding(padY, padX).
		Width(formatWidths[st.Format] + 2*padX)

	switch st.Alignment {
	case model.AlignCenter:
		style = style.Align(lipgloss.Center)
	case model.AlignRight:
		style = style.Align(lipgloss.Right)
	default:
		style = style.Align(lipgloss.Left)
	}

	if st.TextSize >= 10 {
		style = style.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70"))
	}

	return style
}

// renderBox renders the floating speed box
func renderBox(st model.Settings, rate model.Rate) string {
	return boxStyle(st).Render(speedText(st.Format, rate))
}

// boxVisible reports whether the overlay should be drawn
func (m Model) boxVisible() bool {
	if !m.settings.Enabled {
		return false
	}
	if m.settings.LowSpeedHide && m.rate.Total() < m.settings.LowSpeedThreshold {
		return false
	}
	return true
}

// boxSize returns the rendered width and height of the box
func (m Model) boxSize() (int, int) {
	box := renderBox(m.settings, m.rate)
	return lipgloss.Width(box), lipgloss.Height(box)
}

// boxPosition returns where the box is drawn, kept inside the screen
func (m Model) boxPosition() (int, int) {
	if m.dragging {
		return m.dragX, m.dragY
	}
	w, h := m.boxSize()
	x := clamp(m.settings.PositionX, 0, m.width-w)
	y := clamp(m.settings.PositionY, 0, m.canvasHeight()-h)
	return x, y
}

// canvasHeight is the screen height minus the footer line
func (m Model) canvasHeight() int {
	if m.height < 1 {
		return 0
	}
	return m.height - 1
}

// renderOverlay draws the box at its position on an otherwise empty canvas
func (m Model) renderOverlay() string {
	height := m.canvasHeight()
	lines := make([]string, height)

	if m.boxVisible() {
		x, y := m.boxPosition()
		pad := strings.Repeat(" ", x)
		for i, line := range strings.Split(renderBox(m.settings, m.rate), "\n") {
			if y+i >= 0 && y+i < height {
				lines[y+i] = pad + line
			}
		}
	}

	return strings.Join(lines, "\n")
}
