package purchase

import (
	"fmt"

	"github.com/pkordes/mealmate/internal/domain"
)

// Lookup identifies one asynchronous location request for an ingredient.
// It records the ingredient's purchase generation at the time the request
// was made; any later toggle of that ingredient makes the ticket stale.
type Lookup struct {
	Name       string
	key        string
	generation uint64
}

// Outcome describes what ResolveLookup did with a result.
type Outcome int

const (
	// OutcomeStale: the ingredient changed since the lookup began; nothing applied.
	OutcomeStale Outcome = iota
	// OutcomeLocated: the coordinate was recorded.
	OutcomeLocated
	// OutcomeReverted: no coordinate was available and the purchase was undone.
	OutcomeReverted
)

// String returns a human-readable outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeLocated:
		return "located"
	case OutcomeReverted:
		return "reverted"
	default:
		return "stale"
	}
}

// BeginLookup issues a ticket for a location request on a purchased ingredient.
// It returns domain.ErrNotPurchased when name is not currently purchased.
func (s *State) BeginLookup(name string) (Lookup, error) {
	k, ok := s.lookup(name)
	if ok {
		if _, bought := s.purchased[k]; bought {
			return Lookup{Name: s.names[k], key: k, generation: s.generation[k]}, nil
		}
	}
	return Lookup{}, fmt.Errorf("purchase.State.BeginLookup: %w: %q", domain.ErrNotPurchased, name)
}

// ResolveLookup applies the result of a location request.
//
// If the ingredient was toggled after the ticket was issued the result is
// discarded. Otherwise a found coordinate is recorded, and a missing one
// reverts the purchase.
func (s *State) ResolveLookup(l Lookup, at domain.LatLng, found bool) Outcome {
	if _, bought := s.purchased[l.key]; !bought || s.generation[l.key] != l.generation {
		return OutcomeStale
	}
	if !found {
		s.set(l.key, false, nil)
		return OutcomeReverted
	}
	s.locations[l.key] = at
	return OutcomeLocated
}
