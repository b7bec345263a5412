package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/purchase"
	"github.com/pkordes/mealmate/internal/repo"
)

// ExportService assembles a flat export of every recipe's purchase status.
type ExportService struct {
	recipes repo.RecipeRepo
	log     *slog.Logger
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(recipes repo.RecipeRepo, log *slog.Logger) *ExportService {
	return &ExportService{recipes: recipes, log: log}
}

// Export returns one ExportRow per recipe ingredient, recipes newest first and
// ingredients in list order. A recipe without ingredients contributes one row
// with empty ingredient fields.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, r := range recipes {
		state, err := purchase.Restore(r)
		if err != nil {
			s.log.Warn("discarding malformed purchase locations", "recipe_id", r.ID, "error", err)
		}
		ready := state.Ready()

		if len(r.Ingredients) == 0 {
			rows = append(rows, domain.ExportRow{RecipeID: r.ID.String(), RecipeName: r.Name, Ready: ready})
			continue
		}
		for _, name := range r.Ingredients {
			row := domain.ExportRow{
				RecipeID:   r.ID.String(),
				RecipeName: r.Name,
				Ready:      ready,
				Ingredient: name,
				Purchased:  state.IsPurchased(name),
			}
			if at, ok := state.Location(name); ok {
				row.Location = &at
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
