package engine

import "fmt"

// FormatDuration renders a millisecond duration for humans:
// "1 minute and 30 seconds", "45 seconds", "2 minutes". Sub-second
// remainders are discarded and durations of an hour or more are still
// expressed in minutes.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSec := ms / 1000
	minutes := totalSec / 60
	seconds := totalSec % 60

	if minutes >= 1 {
		out := fmt.Sprintf("%d %s", minutes, pluralize(minutes, "minute"))
		if seconds > 0 {
			out += fmt.Sprintf(" and %d %s", seconds, pluralize(seconds, "second"))
		}
		return out
	}
	return fmt.Sprintf("%d %s", seconds, pluralize(seconds, "second"))
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
