package session

import (
	"fmt"
	"time"
)

// wholeSeconds rounds d to the nearest second. Negative spans (clock
// adjustments) count as zero.
func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Second) / time.Second)
}

// FormatElapsed renders d as minutes:seconds with two-digit seconds,
// truncating partial seconds.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
