// Package settings persists the overlay settings and tells subscribers
// whenever they change.
package settings

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rusenback/netspeed/internal/model"
)

// Keys of the persisted values
const (
	KeyPositionX         = "position_x"
	KeyPositionY         = "position_y"
	KeyLocked            = "is_locked"
	KeyLowSpeedHide      = "low_speed_hide"
	KeyLowSpeedThreshold = "low_speed_threshold"
	KeyFormat            = "speed_format"
	KeyAlignment         = "text_alignment"
	KeyColor             = "text_color"
	KeyTextSize          = "text_size"
	KeyEnabled           = "floating_enabled"
)

// Backend is a flat key-value store
type Backend interface {
	All() (map[string]string, error)
	SetAll(values map[string]string) error
}

// Store keeps the current settings in memory and in the backend
type Store struct {
	backend Backend

	mu          sync.Mutex
	current     model.Settings
	subscribers map[int]chan model.Settings
	nextID      int
}

// NewStore loads settings from backend, filling defaults for missing keys
func NewStore(backend Backend) (*Store, error) {
	s := &Store{
		backend:     backend,
		subscribers: make(map[int]chan model.Settings),
	}
	current, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = current
	return s, nil
}

// Get returns a copy of the current settings
func (s *Store) Get() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies fn, persists the result and notifies subscribers
func (s *Store) Update(fn func(*model.Settings)) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)
	normalize(&next)

	if err := s.backend.SetAll(encode(next)); err != nil {
		return s.current, fmt.Errorf("save settings: %w", err)
	}

	s.current = next
	s.broadcastLocked()
	return next, nil
}

// Subscribe returns a channel that receives the settings after each change.
// A slow reader only sees the most recent value. Call the returned func to
// unsubscribe.
func (s *Store) Subscribe() (<-chan model.Settings, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan model.Settings, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) broadcastLocked() {
	for _, ch := range s.subscribers {
		// replace any unread value with the newest one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.current:
		default:
		}
	}
}

func (s *Store) load() (model.Settings, error) {
	values, err := s.backend.All()
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings := decode(values)
	normalize(&settings)
	return settings, nil
}

func encode(st model.Settings) map[string]string {
	return map[string]string{
		KeyPositionX:         strconv.Itoa(st.PositionX),
		KeyPositionY:         strconv.Itoa(st.PositionY),
		KeyLocked:            strconv.FormatBool(st.Locked),
		KeyLowSpeedHide:      strconv.FormatBool(st.LowSpeedHide),
		KeyLowSpeedThreshold: strconv.FormatUint(st.LowSpeedThreshold, 10),
		KeyFormat:            strconv.Itoa(int(st.Format)),
		KeyAlignment:         strconv.Itoa(int(st.Alignment)),
		KeyColor:             st.Color,
		KeyTextSize:          strconv.Itoa(st.TextSize),
		KeyEnabled:           strconv.FormatBool(st.Enabled),
	}
}

func decode(values map[string]string) model.Settings {
	st := model.DefaultSettings()

	intVal := func(key string, dst *int) {
		if v, ok := values[key]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid setting")
			}
		}
	}
	boolVal := func(key string, dst *bool) {
		if v, ok := values[key]; ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			} else {
				log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid setting")
			}
		}
	}

	intVal(KeyPositionX, &st.PositionX)
	intVal(KeyPositionY, &st.PositionY)
	boolVal(KeyLocked, &st.Locked)
	boolVal(KeyLowSpeedHide, &st.LowSpeedHide)
	boolVal(KeyEnabled, &st.Enabled)
	intVal(KeyTextSize, &st.TextSize)

	if v, ok := values[KeyLowSpeedThreshold]; ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			st.LowSpeedThreshold = n
		} else {
			log.Warn().Str("key", KeyLowSpeedThreshold).Str("value", v).Msg("ignoring invalid setting")
		}
	}

	format := int(st.Format)
	intVal(KeyFormat, &format)
	st.Format = model.SpeedFormat(format)

	align := int(st.Alignment)
	intVal(KeyAlignment, &align)
	st.Alignment = model.Alignment(align)

	if v, ok := values[KeyColor]; ok {
		st.Color = v
	}

	return st
}

// normalize replaces out-of-range values with defaults or bounds
func normalize(st *model.Settings) {
	def := model.DefaultSettings()

	if st.PositionX < 0 {
		st.PositionX = 0
	}
	if st.PositionY < 0 {
		st.PositionY = 0
	}
	if !st.Format.Valid() {
		st.Format = def.Format
	}
	if !st.Alignment.Valid() {
		st.Alignment = def.Alignment
	}
	if !validColor(st.Color) {
		st.Color = def.Color
	}
	if st.TextSize < model.MinTextSize {
		st.TextSize = model.MinTextSize
	}
	if st.TextSize > model.MaxTextSize {
		st.TextSize = model.MaxTextSize
	}
}

func validColor(name string) bool {
	for _, c := range model.Colors {
		if c == name {
			return true
		}
	}
	return false
}
