package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rusenback/netspeed/internal/sampler"
	"github.com/rusenback/netspeed/internal/storage"
)

var (
	graphTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))
	graphAxisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	downGraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
	upGraphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	bothGraphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBA6F7"))
)

// axisWidth is the space reserved for the Y-axis labels
const axisWidth = 12

// renderThroughputGraph renders download and upload on one graph with a time range header
func renderThroughputGraph(
	downData, upData []float64,
	width, height int,
	timeRange storage.TimeRange,
	step time.Duration,
) string {
	var s strings.Builder

	title := fmt.Sprintf("📈 Throughput - %s", timeRange.String())
	s.WriteString(graphTitleStyle.Render(title) + "\n")
	s.WriteString(graphAxisStyle.Render("[t] range  [g/esc] back") + "\n\n")

	if len(downData) == 0 || len(upData) == 0 {
		s.WriteString("Waiting for data...")
		return s.String()
	}

	graphHeight := height - 10
	if graphHeight < 5 {
		graphHeight = 5
	}

	s.WriteString(renderCombinedGraph(downData, upData, width, graphHeight, step))
	return s.String()
}

// graphMax picks the top of the Y-axis so the highest value fits
func graphMax(downData, upData []float64) float64 {
	maxVal := 0.0
	for i := range downData {
		if downData[i] > maxVal {
			maxVal = downData[i]
		}
	}
	for i := range upData {
		if upData[i] > maxVal {
			maxVal = upData[i]
		}
	}
	if maxVal < 1024 {
		maxVal = 1024
	}
	return maxVal
}

// renderCombinedGraph creates a multi-line ASCII graph with both directions
func renderCombinedGraph(downData, upData []float64, width, height int, step time.Duration) string {
	var s strings.Builder

	downCurrent := downData[len(downData)-1]
	upCurrent := upData[len(upData)-1]

	downLegend := downGraphStyle.Render("█") + " Download: " +
		downGraphStyle.Render(sampler.FormatSpeed(uint64(downCurrent)))
	upLegend := upGraphStyle.Render("█") + " Upload: " +
		upGraphStyle.Render(sampler.FormatSpeed(uint64(upCurrent)))
	s.WriteString(downLegend + "  " + upLegend + "  " + bothGraphStyle.Render("█") + " Both\n\n")

	// Limit data points to available width
	maxWidth := width - axisWidth - 1
	if maxWidth < 20 {
		maxWidth = 20
	}
	n := len(downData)
	if len(upData) < n {
		n = len(upData)
	}
	if n > maxWidth {
		n = maxWidth
	}
	displayDown := downData[len(downData)-n:]
	displayUp := upData[len(upData)-n:]

	maxVal := graphMax(displayDown, displayUp)

	for row := height; row >= 0; row-- {
		var line strings.Builder

		isGridLine := row == height || row == height/2 || row == 0

		switch row {
		case height:
			line.WriteString(graphAxisStyle.Render(axisLabel(maxVal)))
		case height / 2:
			line.WriteString(graphAxisStyle.Render(axisLabel(maxVal / 2)))
		case 0:
			line.WriteString(graphAxisStyle.Render(axisLabel(0)))
		default:
			line.WriteString(strings.Repeat(" ", axisWidth))
		}
		line.WriteString(graphAxisStyle.Render("│"))

		threshold := float64(row) / float64(height) * maxVal

		for i := 0; i < n; i++ {
			// Row 0 is only drawn for non-zero traffic
			downAbove := displayDown[i] >= threshold && displayDown[i] > 0
			upAbove := displayUp[i] >= threshold && displayUp[i] > 0

			switch {
			case downAbove && upAbove:
				line.WriteString(bothGraphStyle.Render("█"))
			case downAbove:
				line.WriteString(downGraphStyle.Render("█"))
			case upAbove:
				line.WriteString(upGraphStyle.Render("█"))
			case isGridLine:
				line.WriteString(graphAxisStyle.Render("·"))
			default:
				line.WriteString(" ")
			}
		}

		s.WriteString(line.String() + "\n")
	}

	axisLength := n
	if axisLength < 1 {
		axisLength = 1
	}
	s.WriteString(strings.Repeat(" ", axisWidth) +
		graphAxisStyle.Render("└"+strings.Repeat("─", axisLength)) + "\n")

	s.WriteString(renderTimeLabels(axisLength, n, step) + "\n")

	s.WriteString("\n")
	s.WriteString(graphAxisStyle.Render(fmt.Sprintf("Tracking %d data points", n)))

	return s.String()
}

// axisLabel formats a Y-axis value right-aligned to the axis width
func axisLabel(v float64) string {
	return fmt.Sprintf("%*s ", axisWidth-1, sampler.FormatSpeed(uint64(v)))
}

// renderTimeLabels creates time markers along the X-axis
func renderTimeLabels(axisLength, dataPoints int, step time.Duration) string {
	stepSeconds := int(step.Seconds())
	if stepSeconds < 1 {
		stepSeconds = 1
	}
	totalSeconds := dataPoints * stepSeconds

	pad := strings.Repeat(" ", axisWidth)
	if axisLength < 20 {
		return graphAxisStyle.Render(fmt.Sprintf("%s%s → Now", pad, agoLabel(totalSeconds)))
	}

	numMarkers := 5
	if axisLength < 50 {
		numMarkers = 3
	}

	var s strings.Builder
	s.WriteString(pad)

	currentCol := 0
	for i := 0; i < numMarkers; i++ {
		position := (i * axisLength) / (numMarkers - 1)
		if i == numMarkers-1 {
			position = axisLength - 1
		}

		// leftmost is oldest
		index := (position * dataPoints) / axisLength
		label := agoLabel(totalSeconds - index*stepSeconds)

		labelStart := position - len(label)/2
		if labelStart < currentCol {
			labelStart = currentCol
		}
		if gap := labelStart - currentCol; gap > 0 {
			s.WriteString(strings.Repeat(" ", gap))
		}
		s.WriteString(label)
		currentCol = labelStart + len(label)
	}

	return graphAxisStyle.Render(s.String())
}

func agoLabel(secondsAgo int) string {
	switch {
	case secondsAgo < 60:
		return "Now"
	case secondsAgo < 3600:
		return fmt.Sprintf("%dm ago", secondsAgo/60)
	case secondsAgo < 86400:
		return fmt.Sprintf("%dh ago", secondsAgo/3600)
	default:
		return fmt.Sprintf("%dd ago", secondsAgo/86400)
	}
}
