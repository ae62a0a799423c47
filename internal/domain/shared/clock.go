package shared

import "time"

// Clock supplies the current time. Services take a Clock so that expiry
// windows and derived countdowns can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// DaysUntil returns the ceiling of the whole days from now until t. It is
// negative once t has passed by at least a day.
func DaysUntil(now, t time.Time) int {
	const day = 24 * time.Hour
	d := t.Sub(now)
	days := int(d / day)
	if d%day > 0 {
		days++
	}
	return days
}
