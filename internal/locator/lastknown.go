// Package locator provides domain.LocationProvider implementations.
package locator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkordes/mealmate/internal/domain"
)

// Compile-time interface check.
var _ domain.LocationProvider = (*LastKnown)(nil)

// LastKnown answers with the most recent coordinate reported by the client's
// device. A report older than maxAge counts as unavailable; a zero maxAge
// accepts reports of any age. Safe for concurrent use.
type LastKnown struct {
	mu       sync.RWMutex
	at       domain.LatLng
	reported time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewLastKnown returns a provider with no report yet.
func NewLastKnown(maxAge time.Duration) *LastKnown {
	return &LastKnown{maxAge: maxAge, now: time.Now}
}

// Report records the device's current coordinate.
func (l *LastKnown) Report(at domain.LatLng) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.at = at
	l.reported = l.now()
}

// Locate returns the last reported coordinate, or domain.ErrLocationUnavailable
// when there is none or it is too old.
func (l *LastKnown) Locate(ctx context.Context) (domain.LatLng, error) {
	if err := ctx.Err(); err != nil {
		return domain.LatLng{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.reported.IsZero() {
		return domain.LatLng{}, fmt.Errorf("locator.LastKnown.Locate: %w: no report", domain.ErrLocationUnavailable)
	}
	if l.maxAge > 0 && l.now().Sub(l.reported) > l.maxAge {
		return domain.LatLng{}, fmt.Errorf("locator.LastKnown.Locate: %w: report older than %s", domain.ErrLocationUnavailable, l.maxAge)
	}
	return l.at, nil
}
