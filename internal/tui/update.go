package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		if m.view == viewGraph {
			return m, tea.Batch(fetchHistory(m.history, m.timeRange), tickCmd())
		}
		return m, tickCmd()

	case rateMsg:
		m.rate = msg.rate
		m.hasRate = true
		m.err = nil

		// Shift history left and add the new value at the end
		m.downHistory = append(m.downHistory[1:], float64(msg.rate.Download))
		m.upHistory = append(m.upHistory[1:], float64(msg.rate.Upload))

		return m, waitForRate(m.rates)

	case readErrMsg:
		m.err = msg.err
		return m, waitForReadError(m.errors)

	case settingsMsg:
		m.settings = msg.settings
		return m, waitForSettings(m.settingsChan)

	case actionMsg:
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("settings change failed")
			m.message = fmt.Sprintf("Error: %v", msg.err)
		} else if msg.message != "" {
			m.message = msg.message
		}

	case historyMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("History error: %v", msg.err)
		} else {
			m.points = msg.points
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit

	case "esc":
		m.view = viewOverlay

	case "s":
		m.view = toggleView(m.view, viewSettings)

	case "g":
		m.view = toggleView(m.view, viewGraph)
		if m.view == viewGraph {
			return m, fetchHistory(m.history, m.timeRange)
		}

	case "t":
		m.timeRange = m.timeRange.Next()
		if m.view == viewGraph {
			return m, fetchHistory(m.history, m.timeRange)
		}

	case "up", "k":
		return m, m.nudgeBox(0, -1)
	case "down", "j":
		return m, m.nudgeBox(0, 1)
	case "left", "h":
		return m, m.nudgeBox(-1, 0)
	case "right", "l":
		return m, m.nudgeBox(1, 0)

	case "c":
		boxW, boxH := m.boxSize()
		return m, center(m.store, m.width, m.canvasHeight(), boxW, boxH)

	case "L":
		return m, toggleLock(m.store)

	case "H":
		return m, toggleLowSpeedHide(m.store)

	case " ":
		return m, toggleEnabled(m.store)

	case "f":
		return m, cycleFormat(m.store)

	case "a":
		return m, cycleAlignment(m.store)

	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		return m, setColor(m.store, colorNames[idx])

	case "+", "=":
		return m, adjustTextSize(m.store, 1)
	case "-", "_":
		return m, adjustTextSize(m.store, -1)

	case "]":
		return m, adjustThreshold(m.store, m.settings.LowSpeedThreshold, true)
	case "[":
		return m, adjustThreshold(m.store, m.settings.LowSpeedThreshold, false)
	}

	return m, nil
}

// handleMouse implements dragging the overlay box
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.view != viewOverlay || m.settings.Locked {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseLeft:
		if m.dragging {
			m.dragTo(msg.X, msg.Y)
			return m, nil
		}
		if !m.boxVisible() {
			return m, nil
		}
		x, y := m.boxPosition()
		w, h := m.boxSize()
		if msg.X >= x && msg.X < x+w && msg.Y >= y && msg.Y < y+h {
			m.dragging = true
			m.grabX = msg.X - x
			m.grabY = msg.Y - y
			m.dragX, m.dragY = x, y
		}

	case tea.MouseMotion:
		if m.dragging {
			m.dragTo(msg.X, msg.Y)
		}

	case tea.MouseRelease:
		if m.dragging {
			m.dragTo(msg.X, msg.Y)
			m.dragging = false
			// keep showing the dropped position until the store confirms it
			m.settings.PositionX, m.settings.PositionY = m.dragX, m.dragY
			return m, moveTo(m.store, m.dragX, m.dragY)
		}
	}

	return m, nil
}

// nudgeBox moves the box one cell within the current screen
func (m Model) nudgeBox(dx, dy int) tea.Cmd {
	boxW, boxH := m.boxSize()
	return nudge(m.store, dx, dy, m.width, m.canvasHeight(), boxW, boxH)
}

func (m *Model) dragTo(mouseX, mouseY int) {
	w, h := m.boxSize()
	m.dragX = clamp(mouseX-m.grabX, 0, m.width-w)
	m.dragY = clamp(mouseY-m.grabY, 0, m.canvasHeight()-h)
}

func toggleView(current, target view) view {
	if current == target {
		return viewOverlay
	}
	return target
}
