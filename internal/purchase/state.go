// Package purchase holds the per-recipe purchase state: which ingredients are
// bought and where. State is the mutable core of an edit session; it performs
// no I/O and is not safe for concurrent use.
package purchase

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/ingredient"
	"github.com/pkordes/mealmate/internal/location"
)

// State tracks purchase status and purchase locations for one recipe,
// keyed by case-folded ingredient name.
//
// A key is present in locations only while the same key is in purchased.
type State struct {
	ingredients []string
	names       map[string]string // key -> spelling from the ingredient list
	purchased   map[string]struct{}
	locations   map[string]domain.LatLng
	generation  map[string]uint64
}

// New returns a State for the given ingredient list with nothing purchased.
func New(ingredients []string) *State {
	s := &State{
		ingredients: append([]string(nil), ingredients...),
		names:       make(map[string]string, len(ingredients)),
		purchased:   make(map[string]struct{}),
		locations:   make(map[string]domain.LatLng),
		generation:  make(map[string]uint64),
	}
	for _, n := range ingredients {
		k := ingredient.Key(n)
		if _, ok := s.names[k]; !ok {
			s.names[k] = n
		}
	}
	return s
}

// Restore materializes a State from a persisted recipe.
//
// Purchased names that are not in the ingredient list are dropped, and so are
// locations of ingredients that are not purchased. A malformed location map
// is replaced by an empty one; the decode error is returned alongside the
// usable State so the caller can log it.
func Restore(r domain.Recipe) (*State, error) {
	s := New(r.Ingredients)
	for _, n := range r.Purchased {
		if k, ok := s.lookup(n); ok {
			s.purchased[k] = struct{}{}
		}
	}

	locs, decodeErr := location.Decode(r.LocationsJSON)
	for _, n := range slices.Sorted(maps.Keys(locs)) {
		k, ok := s.lookup(n)
		if !ok {
			continue
		}
		if _, bought := s.purchased[k]; !bought {
			continue
		}
		// Among case variants of one ingredient, the ingredient-list
		// spelling wins, then the first variant in sorted order.
		if _, set := s.locations[k]; set && n != s.names[k] {
			continue
		}
		s.locations[k] = locs[n]
	}
	return s, decodeErr
}

// Ingredients returns the ingredient list the State was built from.
func (s *State) Ingredients() []string {
	return append([]string(nil), s.ingredients...)
}

// IsPurchased reports whether name is currently marked purchased.
func (s *State) IsPurchased(name string) bool {
	k, ok := s.lookup(name)
	if !ok {
		return false
	}
	_, bought := s.purchased[k]
	return bought
}

// Toggle flips the purchase status of name and returns the new status.
//
// Turning an ingredient on records at when it is non-nil. Turning it off also
// removes its location. Names that match no ingredient return
// domain.ErrUnknownIngredient and leave the State unchanged.
func (s *State) Toggle(name string, at *domain.LatLng) (bool, error) {
	k, ok := s.lookup(name)
	if !ok {
		return false, fmt.Errorf("purchase.State.Toggle: %w: %q", domain.ErrUnknownIngredient, name)
	}
	_, bought := s.purchased[k]
	s.set(k, !bought, at)
	return !bought, nil
}

// SetPurchased sets the purchase status of name explicitly. It is the
// idempotent form of Toggle: setting the current status again only updates
// the location when at is non-nil.
func (s *State) SetPurchased(name string, purchased bool, at *domain.LatLng) error {
	k, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("purchase.State.SetPurchased: %w: %q", domain.ErrUnknownIngredient, name)
	}
	s.set(k, purchased, at)
	return nil
}

func (s *State) set(k string, purchased bool, at *domain.LatLng) {
	if !purchased {
		if _, bought := s.purchased[k]; bought {
			s.generation[k]++
		}
		delete(s.purchased, k)
		delete(s.locations, k)
		return
	}
	if _, bought := s.purchased[k]; !bought {
		s.generation[k]++
		s.purchased[k] = struct{}{}
	}
	if at != nil {
		s.locations[k] = *at
	}
}

// SetLocation records where name was bought. Only purchased ingredients can
// carry a location; anything else returns domain.ErrNotPurchased.
func (s *State) SetLocation(name string, at domain.LatLng) error {
	k, ok := s.lookup(name)
	if ok {
		if _, bought := s.purchased[k]; bought {
			s.locations[k] = at
			return nil
		}
	}
	return fmt.Errorf("purchase.State.SetLocation: %w: %q", domain.ErrNotPurchased, name)
}

// Location returns the stored location of name.
func (s *State) Location(name string) (domain.LatLng, bool) {
	k, ok := s.lookup(name)
	if !ok {
		return domain.LatLng{}, false
	}
	at, ok := s.locations[k]
	return at, ok
}

// CopyLocationText returns the stored location of name as "<lat>, <lon>".
// The boolean is false when no location is stored.
func (s *State) CopyLocationText(name string) (string, bool) {
	at, ok := s.Location(name)
	if !ok {
		return "", false
	}
	return location.FormatText(at), true
}

// PurchasedNames returns purchased ingredients in ingredient-list order,
// spelled as in the ingredient list.
func (s *State) PurchasedNames() []string {
	out := []string{}
	for _, n := range s.ingredients {
		if _, bought := s.purchased[ingredient.Key(n)]; bought {
			out = append(out, n)
		}
	}
	return out
}

// Locations returns the stored locations in ingredient-list order.
func (s *State) Locations() []location.Entry {
	out := []location.Entry{}
	seen := make(map[string]struct{}, len(s.locations))
	for _, n := range s.ingredients {
		k := ingredient.Key(n)
		if _, done := seen[k]; done {
			continue
		}
		if at, ok := s.locations[k]; ok {
			seen[k] = struct{}{}
			out = append(out, location.Entry{Name: s.names[k], At: at})
		}
	}
	return out
}

// Ready reports whether every ingredient is purchased.
func (s *State) Ready() bool {
	return IsReady(s.ingredients, s.PurchasedNames())
}

// Apply writes the State into r's persisted purchase fields.
// r.Ingredients is left untouched.
func (s *State) Apply(r *domain.Recipe) error {
	encoded, err := location.Encode(s.Locations())
	if err != nil {
		return fmt.Errorf("purchase.State.Apply: %w", err)
	}
	r.Purchased = s.PurchasedNames()
	r.LocationsJSON = encoded
	return nil
}

func (s *State) lookup(name string) (string, bool) {
	k := ingredient.Key(name)
	_, ok := s.names[k]
	return k, ok
}
