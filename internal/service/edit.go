package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/locator"
	"github.com/pkordes/mealmate/internal/permission"
	"github.com/pkordes/mealmate/internal/repo"
	"github.com/pkordes/mealmate/internal/session"
)

// editSession pairs an Editor with the device-location feed of the client
// that opened it.
type editSession struct {
	editor *session.Editor
	device *locator.LastKnown
}

// EditService runs purchase edit sessions: a client opens one on a recipe,
// toggles ingredients and records locations, then saves or cancels.
type EditService struct {
	recipes  repo.RecipeRepo
	sessions *session.Registry[*editSession]
	maxAge   time.Duration
	timeout  time.Duration
	log      *slog.Logger
}

// NewEditService constructs an EditService. Device reports older than maxAge
// are ignored by lookups; a lookup gives up after timeout.
func NewEditService(recipes repo.RecipeRepo, maxAge, timeout time.Duration, log *slog.Logger) *EditService {
	return &EditService{
		recipes:  recipes,
		sessions: session.NewRegistry[*editSession]("edit session", log),
		maxAge:   maxAge,
		timeout:  timeout,
		log:      log,
	}
}

// Open starts an edit session on a recipe. granted lists the capabilities the
// client grants up front.
// Returns domain.ErrNotFound if the recipe does not exist.
func (s *EditService) Open(ctx context.Context, recipeID uuid.UUID, granted []domain.Capability) (session.View, error) {
	r, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return session.View{}, fmt.Errorf("service.EditService.Open: %w", err)
	}

	device := locator.NewLastKnown(s.maxAge)
	editor := session.NewEditor(r, device, s.timeout, s.log, granted...)
	s.sessions.Put(editor.ID, &editSession{editor: editor, device: device})

	s.log.Info("edit session opened", "edit_id", editor.ID, "recipe_id", recipeID)
	return editor.View(), nil
}

// View returns the current state of an edit session.
func (s *EditService) View(id uuid.UUID) (session.View, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return session.View{}, fmt.Errorf("service.EditService.View: %w", err)
	}
	return sess.editor.View(), nil
}

// SetPurchased marks an ingredient purchased or not, optionally at a location.
//
// When a lookup had to be parked on the location capability the returned View
// is still valid and the error wraps domain.ErrAwaitingGrant.
func (s *EditService) SetPurchased(id uuid.UUID, name string, purchased bool, at *domain.LatLng) (session.View, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return session.View{}, fmt.Errorf("service.EditService.SetPurchased: %w", err)
	}

	err = sess.editor.SetPurchased(name, purchased, at)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAwaitingGrant):
		return sess.editor.View(), fmt.Errorf("service.EditService.SetPurchased: %w", err)
	default:
		return session.View{}, fmt.Errorf("service.EditService.SetPurchased: %w", err)
	}
	sess.editor.Settle()
	return sess.editor.View(), nil
}

// SetLocation records a location for a purchased ingredient.
// Returns domain.ErrNotPurchased if the ingredient is not purchased.
func (s *EditService) SetLocation(id uuid.UUID, name string, at domain.LatLng) (session.View, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return session.View{}, fmt.Errorf("service.EditService.SetLocation: %w", err)
	}
	if err := sess.editor.SetLocation(name, at); err != nil {
		return session.View{}, fmt.Errorf("service.EditService.SetLocation: %w", err)
	}
	return sess.editor.View(), nil
}

// ImportLocations applies per-ingredient "lat, lon" text to the session.
// Names whose text does not parse, or that are unknown or not purchased, are
// returned as skipped.
func (s *EditService) ImportLocations(id uuid.UUID, fields map[string]string) (session.View, []string, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return session.View{}, nil, fmt.Errorf("service.EditService.ImportLocations: %w", err)
	}
	skipped, err := sess.editor.ImportLocationText(fields)
	if err != nil {
		return session.View{}, nil, fmt.Errorf("service.EditService.ImportLocations: %w", err)
	}
	if len(skipped) > 0 {
		s.log.Info("location import skipped entries", "edit_id", id, "skipped", skipped)
	}
	return sess.editor.View(), skipped, nil
}

// Grant answers a capability request for the session. A granted location
// capability resumes the last parked lookup.
func (s *EditService) Grant(id uuid.UUID, c domain.Capability, granted bool) (session.View, permission.State, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return session.View{}, permission.Idle, fmt.Errorf("service.EditService.Grant: %w", err)
	}
	state := sess.editor.Grant(c, granted)
	sess.editor.Settle()

	s.log.Info("capability answered", "edit_id", id, "capability", c, "granted", granted, "pending", state.String())
	return sess.editor.View(), state, nil
}

// ReportDeviceLocation feeds the client's current coordinate to the session's
// location provider.
func (s *EditService) ReportDeviceLocation(id uuid.UUID, at domain.LatLng) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return fmt.Errorf("service.EditService.ReportDeviceLocation: %w", err)
	}
	sess.device.Report(at)
	return nil
}

// Save persists the session's purchase state and closes the session.
// Lookups still in flight are awaited first. On a store error the session
// stays open so the client can retry.
func (s *EditService) Save(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.EditService.Save: %w", err)
	}

	sess.editor.Settle()
	snap, err := sess.editor.Snapshot()
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.EditService.Save: %w", err)
	}

	saved, err := s.recipes.UpdatePurchases(ctx, snap.ID, snap.Purchased, snap.LocationsJSON)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.EditService.Save: %w", err)
	}

	if _, err := s.sessions.Take(id); err == nil {
		sess.editor.Close()
	}
	s.log.Info("edit session saved", "edit_id", id, "recipe_id", saved.ID, "purchased", len(saved.Purchased))
	return saved, nil
}

// Cancel discards the session without saving.
func (s *EditService) Cancel(id uuid.UUID) error {
	sess, err := s.sessions.Take(id)
	if err != nil {
		return fmt.Errorf("service.EditService.Cancel: %w", err)
	}
	sess.editor.Close()
	s.log.Info("edit session cancelled", "edit_id", id)
	return nil
}

// Close cancels every open session. Called on shutdown.
func (s *EditService) Close() {
	for _, sess := range s.sessions.Drain() {
		sess.editor.Close()
	}
}
