// Package service contains the business logic for the MealMate service.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/ingredient"
	"github.com/pkordes/mealmate/internal/purchase"
	"github.com/pkordes/mealmate/internal/repo"
)

// RecipeService implements business logic for Recipe operations.
type RecipeService struct {
	repo repo.RecipeRepo
	log  *slog.Logger
}

// NewRecipeService constructs a RecipeService backed by the provided RecipeRepo.
func NewRecipeService(r repo.RecipeRepo, log *slog.Logger) *RecipeService {
	return &RecipeService{repo: r, log: log}
}

// Create validates and persists a new recipe. A new recipe starts with nothing
// purchased.
// Returns domain.ErrValidation if input violates business rules.
func (s *RecipeService) Create(ctx context.Context, r domain.Recipe) (domain.Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Instructions = strings.TrimSpace(r.Instructions)
	r.Ingredients = ingredient.Normalize(r.Ingredients)
	if err := validateRecipe(r); err != nil {
		return domain.Recipe{}, err
	}
	r.Purchased = []string{}
	r.LocationsJSON = ""

	result, err := s.repo.Create(ctx, r)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	s.log.Info("recipe created", "recipe_id", result.ID, "ingredients", len(result.Ingredients))
	return result, nil
}

// GetByID returns a single recipe by ID.
// Returns domain.ErrNotFound if no recipe with that ID exists.
func (s *RecipeService) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.GetByID: %w", err)
	}
	return result, nil
}

// List returns every recipe, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RecipeService.List: %w", err)
	}
	if recipes == nil {
		return []domain.Recipe{}, nil
	}
	return recipes, nil
}

// ListPaged returns one page of recipes and the total count.
func (s *RecipeService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error) {
	recipes, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.RecipeService.ListPaged: %w", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, total, nil
}

// Delete removes a recipe by ID.
// Returns domain.ErrNotFound if the recipe does not exist.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.RecipeService.Delete: %w", err)
	}
	s.log.Info("recipe deleted", "recipe_id", id)
	return nil
}

// LocationText returns the stored purchase location of one ingredient as
// "<lat>, <lon>", ready to be copied to a clipboard.
// Returns domain.ErrNotFound when the recipe or the location does not exist.
func (s *RecipeService) LocationText(ctx context.Context, id uuid.UUID, name string) (string, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("service.RecipeService.LocationText: %w", err)
	}
	state, err := purchase.Restore(r)
	if err != nil {
		s.log.Warn("discarding malformed purchase locations", "recipe_id", id, "error", err)
	}
	text, ok := state.CopyLocationText(name)
	if !ok {
		return "", fmt.Errorf("service.RecipeService.LocationText: no location for %q: %w", name, domain.ErrNotFound)
	}
	return text, nil
}

// validateRecipe enforces the creation rules.
//   - Name must be non-empty.
//   - Ingredients must be a non-empty list of distinct names (case-insensitive).
//   - Instructions must be non-empty.
func validateRecipe(r domain.Recipe) error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := ingredient.Validate(r.Ingredients); err != nil {
		return err
	}
	if r.Instructions == "" {
		return fmt.Errorf("%w: instructions are required", domain.ErrValidation)
	}
	return nil
}
