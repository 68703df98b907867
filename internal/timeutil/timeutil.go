// Package timeutil formats elapsed times for CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration renders d rounded to whole seconds, as "45s" under a
// minute and "3m 20s" from there on. Minutes are not folded into hours,
// so an 8-hour wait reads "480m 0s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}
