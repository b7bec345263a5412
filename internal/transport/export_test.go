package transport

import "time"

// SetRetryTiming shortens the backoff schedule in tests.
func (w *Webhook) SetRetryTiming(initial, maxElapsed time.Duration) {
	w.initialInterval = initial
	w.maxElapsed = maxElapsed
}
