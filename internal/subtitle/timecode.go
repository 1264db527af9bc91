package subtitle

import (
	"fmt"
	"math"
)

// ToSrtTime formats seconds as an SRT time code `HH:MM:SS,mmm`.
// Input must be >= 0. The hour field widens past 99 hours instead of
// truncating.
func ToSrtTime(seconds float64) string {
	whole := int(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	millis := int(math.Round((seconds - math.Floor(seconds)) * 1000))
	if millis > 999 {
		millis = 999
	}
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ToVttTime formats seconds as a WebVTT time code `HH:MM:SS.mmm`.
// Input must be >= 0.
func ToVttTime(seconds float64) string {
	whole := int(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := math.Mod(seconds, 60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}
