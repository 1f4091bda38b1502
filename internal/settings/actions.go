package settings

import "github.com/rusenback/netspeed/internal/model"

// Nudge moves the overlay by a small offset (the fine-tune arrows), keeping a
// boxW×boxH overlay inside a width×height screen. A position already past the
// edge is pulled back first so every nudge moves the visible box.
func (s *Store) Nudge(dx, dy, width, height, boxW, boxH int) (model.Settings, error) {
	return s.Update(func(st *model.Settings) {
		st.PositionX = clamp(clamp(st.PositionX, 0, width-boxW)+dx, 0, width-boxW)
		st.PositionY = clamp(clamp(st.PositionY, 0, height-boxH)+dy, 0, height-boxH)
	})
}

// MoveTo sets an absolute position, e.g. at the end of a drag
func (s *Store) MoveTo(x, y int) (model.Settings, error) {
	return s.Update(func(st *model.Settings) {
		st.PositionX = x
		st.PositionY = y
	})
}

// Center places a boxW×boxH overlay in the middle of a width×height screen
func (s *Store) Center(width, height, boxW, boxH int) (model.Settings, error) {
	return s.MoveTo((width-boxW)/2, (height-boxH)/2)
}

func (s *Store) ToggleLock() (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.Locked = !st.Locked })
}

func (s *Store) ToggleLowSpeedHide() (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.LowSpeedHide = !st.LowSpeedHide })
}

func (s *Store) ToggleEnabled() (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.Enabled = !st.Enabled })
}

func (s *Store) CycleFormat() (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.Format = st.Format.Next() })
}

func (s *Store) CycleAlignment() (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.Alignment = st.Alignment.Next() })
}

// SetColor picks one of model.Colors; unknown names fall back to white
func (s *Store) SetColor(name string) (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.Color = name })
}

// AdjustTextSize changes the size by delta, clamped to the allowed range
func (s *Store) AdjustTextSize(delta int) (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.TextSize += delta })
}

// SetThreshold sets the low-speed hide threshold in bytes/sec
func (s *Store) SetThreshold(bytesPerSec uint64) (model.Settings, error) {
	return s.Update(func(st *model.Settings) { st.LowSpeedThreshold = bytesPerSec })
}

// clamp keeps v within [lo, hi]; hi below lo yields lo
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
