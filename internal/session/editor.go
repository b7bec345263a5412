// Package session holds in-flight, in-memory workflows: recipe edit sessions
// and the registry that keeps them addressable between requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/location"
	"github.com/pkordes/mealmate/internal/permission"
	"github.com/pkordes/mealmate/internal/purchase"
)

// Editor is one edit session on a recipe. It owns a purchase.State and
// serializes every access to it, including location results that arrive on
// lookup goroutines. Safe for concurrent use.
type Editor struct {
	ID uuid.UUID

	mu      sync.Mutex
	recipe  domain.Recipe
	state   *purchase.State
	closed  bool
	gate    *permission.Gate
	locator domain.LocationProvider
	timeout time.Duration
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	// inflight counts started lookups not yet applied; idle is signalled on mu
	// when it drops to zero.
	inflight int
	idle     *sync.Cond
}

// View is a read-only snapshot of an edit session.
type View struct {
	ID        uuid.UUID
	Recipe    domain.Recipe
	Purchased []string
	Locations map[string]domain.LatLng
	Ready     bool
	Awaiting  []domain.Capability
}

// NewEditor opens an edit session on r. Location lookups use locator and give
// up after timeout. granted lists capabilities the client granted up front.
func NewEditor(r domain.Recipe, locator domain.LocationProvider, timeout time.Duration, log *slog.Logger, granted ...domain.Capability) *Editor {
	state, err := purchase.Restore(r)
	if err != nil {
		// The State already fell back to an empty location map.
		log.Warn("discarding malformed purchase locations", "recipe_id", r.ID, "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Editor{
		ID:      uuid.New(),
		recipe:  r,
		state:   state,
		gate:    permission.NewGate(granted...),
		locator: locator,
		timeout: timeout,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	e.idle = sync.NewCond(&e.mu)
	return e
}

// RecipeID returns the ID of the recipe being edited.
func (e *Editor) RecipeID() uuid.UUID {
	return e.recipe.ID
}

// SetPurchased marks name purchased or not.
//
// Marking an ingredient purchased without a location starts a lookup through
// the LocationProvider. When the location capability has not been granted the
// lookup is parked and SetPurchased returns domain.ErrAwaitingGrant; the
// purchase itself is already recorded.
func (e *Editor) SetPurchased(name string, purchased bool, at *domain.LatLng) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("session.Editor.SetPurchased: %w", domain.ErrNotFound)
	}
	wasPurchased := e.state.IsPurchased(name)
	if err := e.state.SetPurchased(name, purchased, at); err != nil {
		e.mu.Unlock()
		return err
	}
	if !purchased || at != nil || wasPurchased {
		e.mu.Unlock()
		return nil
	}
	ticket, err := e.state.BeginLookup(name)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if !e.gate.Run(domain.CapabilityLocation, func() { e.startLookup(ticket) }) {
		return fmt.Errorf("session.Editor.SetPurchased: %w: %s", domain.ErrAwaitingGrant, domain.CapabilityLocation)
	}
	return nil
}

// SetLocation records a location for a purchased ingredient.
func (e *Editor) SetLocation(name string, at domain.LatLng) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("session.Editor.SetLocation: %w", domain.ErrNotFound)
	}
	return e.state.SetLocation(name, at)
}

// ImportLocationText sets locations from per-ingredient "lat, lon" text.
// Entries whose text does not parse, or whose ingredient is unknown or not
// purchased, are skipped; their names are returned sorted.
func (e *Editor) ImportLocationText(fields map[string]string) ([]string, error) {
	parsed, skipped := location.FromTextFields(fields)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, fmt.Errorf("session.Editor.ImportLocationText: %w", domain.ErrNotFound)
	}
	for name, at := range parsed {
		err := e.state.SetLocation(name, at)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNotPurchased), errors.Is(err, domain.ErrUnknownIngredient):
			skipped = append(skipped, name)
		default:
			return nil, fmt.Errorf("session.Editor.ImportLocationText: %w", err)
		}
	}
	slices.Sort(skipped)
	return skipped, nil
}

// CopyLocationText returns the stored location of name as "<lat>, <lon>".
func (e *Editor) CopyLocationText(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CopyLocationText(name)
}

// Grant records the client's answer for capability c and resumes or abandons
// the action parked on it.
func (e *Editor) Grant(c domain.Capability, granted bool) permission.State {
	return e.gate.Resolve(c, granted)
}

// startLookup resolves ticket on a goroutine. The result is applied only if
// the ingredient has not been toggled since the ticket was issued.
func (e *Editor) startLookup(ticket purchase.Lookup) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.inflight++
	e.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(e.ctx, e.timeout)
		defer cancel()
		at, err := e.locator.Locate(ctx)

		e.mu.Lock()
		defer e.mu.Unlock()
		defer e.lookupDone()
		if e.closed {
			return
		}
		if err != nil && !errors.Is(err, domain.ErrLocationUnavailable) && !errors.Is(err, context.DeadlineExceeded) {
			e.log.Error("location lookup failed", "ingredient", ticket.Name, "error", err)
		}
		outcome := e.state.ResolveLookup(ticket, at, err == nil)
		e.log.Debug("location lookup resolved", "recipe_id", e.recipe.ID, "ingredient", ticket.Name, "outcome", outcome.String())
	}()
}

// lookupDone must be called with mu held.
func (e *Editor) lookupDone() {
	e.inflight--
	if e.inflight == 0 {
		e.idle.Broadcast()
	}
}

// Settle waits until every started lookup has been applied or discarded,
// including lookups started by other callers while it waits.
func (e *Editor) Settle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.inflight > 0 {
		e.idle.Wait()
	}
}

// View returns a snapshot of the session.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	locs := make(map[string]domain.LatLng)
	for _, l := range e.state.Locations() {
		locs[l.Name] = l.At
	}
	return View{
		ID:        e.ID,
		Recipe:    e.recipe,
		Purchased: e.state.PurchasedNames(),
		Locations: locs,
		Ready:     e.state.Ready(),
		Awaiting:  e.gate.Awaiting(),
	}
}

// Snapshot writes the current State into a copy of the recipe, ready to be
// persisted. The State is read under the lock, so lookups that land later do
// not race with serialization.
func (e *Editor) Snapshot() (domain.Recipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.recipe
	if err := e.state.Apply(&r); err != nil {
		return domain.Recipe{}, fmt.Errorf("session.Editor.Snapshot: %w", err)
	}
	return r, nil
}

// Close ends the session. In-flight lookups are cancelled and any result that
// still arrives is discarded. Close is idempotent.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cancel()
}
