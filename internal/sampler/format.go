// internal/sampler/format.go
package sampler

import "fmt"

var speedUnits = []string{"B/s", "KB/s", "MB/s", "GB/s"}

// FormatSpeed renders a bytes/sec value with one decimal place,
// scaling by 1024 up to GB/s
func FormatSpeed(speed uint64) string {
	if speed == 0 {
		return "0 B/s"
	}

	value := float64(speed)
	unit := 0
	for value >= 1024 && unit < len(speedUnits)-1 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.1f %s", value, speedUnits[unit])
}
