// internal/model/settings.go
package model

// SpeedFormat selects how the overlay presents throughput
type SpeedFormat int

const (
	FormatTotal      SpeedFormat = iota // total speed only
	FormatHorizontal                    // ↓down ↑up on one line
	FormatVertical                      // ↓down and ↑up on two lines
)

func (f SpeedFormat) String() string {
	switch f {
	case FormatTotal:
		return "total"
	case FormatHorizontal:
		return "up/down horizontal"
	case FormatVertical:
		return "up/down vertical"
	default:
		return "unknown"
	}
}

// Next returns the following format, wrapping around
func (f SpeedFormat) Next() SpeedFormat {
	return (f + 1) % 3
}

// Valid reports whether f is a known format
func (f SpeedFormat) Valid() bool {
	return f >= FormatTotal && f <= FormatVertical
}

// Alignment of the text inside the overlay box
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

func (a Alignment) Next() Alignment {
	return (a + 1) % 3
}

func (a Alignment) Valid() bool {
	return a >= AlignLeft && a <= AlignRight
}

// Named text colors offered by the settings panel
var Colors = []string{"white", "black", "green", "red", "blue"}

// Text size bounds
const (
	MinTextSize = 8
	MaxTextSize = 30
)

// Settings holds everything the user can change about the overlay
type Settings struct {
	PositionX         int
	PositionY         int
	Locked            bool
	LowSpeedHide      bool
	LowSpeedThreshold uint64 // bytes per second
	Format            SpeedFormat
	Alignment         Alignment
	Color             string
	TextSize          int
	Enabled           bool
}

// DefaultSettings returns the settings used on first start
func DefaultSettings() Settings {
	return Settings{
		PositionX:         5,
		PositionY:         2,
		LowSpeedThreshold: 1024, // 1 KB/s
		Format:            FormatTotal,
		Alignment:         AlignLeft,
		Color:             "white",
		TextSize:          14,
		Enabled:           true,
	}
}
