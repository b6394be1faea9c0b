package loop

import (
	"fmt"
	"math"
)

// NoTime is shown in place of a missing record.
const NoTime = "--:--.---"

// FormatTime renders milliseconds as MM:SS.mmm. Fractional milliseconds are
// truncated.
func FormatTime(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		ms = 0
	}
	total := int64(ms)
	minutes := total / 60000
	seconds := total % 60000 / 1000
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// FormatBest renders a best time, or NoTime when there is none.
func FormatBest(ms float64, ok bool) string {
	if !ok {
		return NoTime
	}
	return FormatTime(ms)
}
