package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/netspeed/internal/model"
	"github.com/rusenback/netspeed/internal/sampler"
	"github.com/rusenback/netspeed/internal/settings"
	"github.com/rusenback/netspeed/internal/storage"
)

// tickCmd creates a command that sends a tick message every 5 seconds
func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForRate waits for the next rate from the background monitor
func waitForRate(rates <-chan model.Rate) tea.Cmd {
	if rates == nil {
		return nil
	}
	return func() tea.Msg {
		rate, ok := <-rates
		if !ok {
			return nil
		}
		return rateMsg{rate: rate}
	}
}

// waitForReadError waits for the next counter read failure
func waitForReadError(errs <-chan error) tea.Cmd {
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return readErrMsg{err: err}
	}
}

// waitForSettings waits for the next settings broadcast
func waitForSettings(ch <-chan model.Settings) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return settingsMsg{settings: st}
	}
}

// fetchHistory loads the stored throughput for the graph panel
func fetchHistory(history History, timeRange storage.TimeRange) tea.Cmd {
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		points, err := history.Query(timeRange)
		return historyMsg{points: points, err: err}
	}
}

// settingsAction runs a settings change; the new values arrive through the
// subscription as a settingsMsg
func settingsAction(message string, fn func() (model.Settings, error)) tea.Cmd {
	return func() tea.Msg {
		_, err := fn()
		return actionMsg{message: message, err: err}
	}
}

func nudge(store *settings.Store, dx, dy, width, height, boxW, boxH int) tea.Cmd {
	return settingsAction("", func() (model.Settings, error) {
		return store.Nudge(dx, dy, width, height, boxW, boxH)
	})
}

func moveTo(store *settings.Store, x, y int) tea.Cmd {
	return settingsAction(fmt.Sprintf("Moved to %d,%d", x, y), func() (model.Settings, error) {
		return store.MoveTo(x, y)
	})
}

func center(store *settings.Store, width, height, boxW, boxH int) tea.Cmd {
	return settingsAction("Centered", func() (model.Settings, error) {
		return store.Center(width, height, boxW, boxH)
	})
}

func toggleLock(store *settings.Store) tea.Cmd {
	return func() tea.Msg {
		st, err := store.ToggleLock()
		msg := "Position unlocked"
		if st.Locked {
			msg = "Position locked"
		}
		return actionMsg{message: msg, err: err}
	}
}

func toggleLowSpeedHide(store *settings.Store) tea.Cmd {
	return func() tea.Msg {
		st, err := store.ToggleLowSpeedHide()
		msg := "Low-speed hide off"
		if st.LowSpeedHide {
			msg = "Low-speed hide on"
		}
		return actionMsg{message: msg, err: err}
	}
}

func toggleEnabled(store *settings.Store) tea.Cmd {
	return func() tea.Msg {
		st, err := store.ToggleEnabled()
		msg := "Paused"
		if st.Enabled {
			msg = "Resumed"
		}
		return actionMsg{message: msg, err: err}
	}
}

func cycleFormat(store *settings.Store) tea.Cmd {
	return func() tea.Msg {
		st, err := store.CycleFormat()
		return actionMsg{message: "Format: " + st.Format.String(), err: err}
	}
}

func cycleAlignment(store *settings.Store) tea.Cmd {
	return func() tea.Msg {
		st, err := store.CycleAlignment()
		return actionMsg{message: "Alignment: " + st.Alignment.String(), err: err}
	}
}

func setColor(store *settings.Store, name string) tea.Cmd {
	return settingsAction("Color: "+name, func() (model.Settings, error) {
		return store.SetColor(name)
	})
}

func adjustTextSize(store *settings.Store, delta int) tea.Cmd {
	return func() tea.Msg {
		st, err := store.AdjustTextSize(delta)
		return actionMsg{message: fmt.Sprintf("Text size: %d", st.TextSize), err: err}
	}
}

func adjustThreshold(store *settings.Store, current uint64, up bool) tea.Cmd {
	next := current * 2
	if !up {
		next = current / 2
	}
	if next < 128 {
		next = 128
	}
	return settingsAction("Threshold: "+sampler.FormatSpeed(next), func() (model.Settings, error) {
		return store.SetThreshold(next)
	})
}
