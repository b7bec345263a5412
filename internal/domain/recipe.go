// Package domain contains the core data types for the MealMate backend.
// This package has no dependencies on other internal packages and is
// imported by every layer (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is the persisted record for one recipe.
//
// Ingredients and Purchased are the parsed forms of the comma-joined
// ingredients and purchased_ingredients columns. LocationsJSON is kept in its
// stored text form; purchase.Restore decodes it when a recipe is opened for
// editing.
type Recipe struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Ingredients   []string  `json:"ingredients"`
	Instructions  string    `json:"instructions"`
	Purchased     []string  `json:"purchased"`
	LocationsJSON string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LatLng is an immutable latitude/longitude pair.
// No range validation is applied; stored coordinates are taken as-is.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
