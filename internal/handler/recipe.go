package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/location"
	"github.com/pkordes/mealmate/internal/purchase"
)

// CreateRecipeRequest is the body of POST /recipes.
type CreateRecipeRequest struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// Recipe is the JSON representation of a recipe.
type Recipe struct {
	ID                   uuid.UUID                `json:"id"`
	Name                 string                   `json:"name"`
	Ingredients          []string                 `json:"ingredients"`
	PurchasedIngredients []string                 `json:"purchased_ingredients"`
	Instructions         string                   `json:"instructions"`
	Locations            map[string]domain.LatLng `json:"locations"`
	Ready                bool                     `json:"ready"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// RecipeList is the body of GET /recipes.
type RecipeList struct {
	Data       []Recipe   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateRecipe handles POST /recipes.
func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var body CreateRecipeRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.recipes.Create(r.Context(), domain.Recipe{
		Name:         body.Name,
		Ingredients:  body.Ingredients,
		Instructions: body.Instructions,
	})
	if err != nil {
		s.writeError(w, r, "recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, recipeToResponse(created))
}

// ListRecipes handles GET /recipes.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	params := domain.NewPaginationParams(page, limit)
	recipes, total, err := s.recipes.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, "recipe", err)
		return
	}

	data := make([]Recipe, len(recipes))
	for i, rec := range recipes {
		data[i] = recipeToResponse(rec)
	}
	writeJSON(w, http.StatusOK, RecipeList{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// GetRecipe handles GET /recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	rec, err := s.recipes.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, recipeToResponse(rec))
}

// DeleteRecipe handles DELETE /recipes/{id}.
func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	if err := s.recipes.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, "recipe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLocationText handles GET /recipes/{id}/locations/{ingredient}.
// The body is the plain "<lat>, <lon>" text a client copies to its clipboard.
func (s *Server) GetLocationText(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	name, err := pathString(r, "ingredient")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	text, err := s.recipes.LocationText(r.Context(), id, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("location not found"))
			return
		}
		s.writeError(w, r, "recipe", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// --- mapping helpers --------------------------------------------------------

// recipeToResponse converts a domain.Recipe to its JSON form. A malformed
// location map is shown as empty.
func recipeToResponse(rec domain.Recipe) Recipe {
	locs, _ := location.Decode(rec.LocationsJSON)
	return Recipe{
		ID:                   rec.ID,
		Name:                 rec.Name,
		Ingredients:          nonNil(rec.Ingredients),
		PurchasedIngredients: nonNil(rec.Purchased),
		Instructions:         rec.Instructions,
		Locations:            locs,
		Ready:                purchase.IsReady(rec.Ingredients, rec.Purchased),
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
