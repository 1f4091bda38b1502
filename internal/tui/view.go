package tui

// View renders the TUI interface
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting..."
	}

	switch m.view {
	case viewSettings:
		return m.renderSettingsPanel()
	case viewGraph:
		return m.renderGraphPanel()
	default:
		return m.renderOverlay() + "\n" + m.renderFooter()
	}
}
