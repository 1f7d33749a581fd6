package text

import (
	"fmt"
	"time"
)

// RunTimeLayout is how the backend formats started and stopped times.
const RunTimeLayout = "2006-01-02 15:04:05"

// ParseRunTime parses a backend timestamp in the local zone. Empty or
// malformed values give the zero time.
func ParseRunTime(s string) time.Time {
	t, err := time.ParseInLocation(RunTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RunDuration is the time between started and stopped, or between started
// and now for a run that has not stopped. It is "" when started is unknown.
func RunDuration(started, stopped string, now time.Time) string {
	start := ParseRunTime(started)
	if start.IsZero() {
		return ""
	}
	end := ParseRunTime(stopped)
	if end.IsZero() {
		end = now
	}
	return FormatElapsed(end.Sub(start))
}

// FormatElapsed formats a duration as "3s", "25m" or "1h12m".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
