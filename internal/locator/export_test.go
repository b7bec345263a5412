package locator

import "time"

// SetClock replaces the provider's clock in tests.
func (l *LastKnown) SetClock(now func() time.Time) {
	l.now = now
}
