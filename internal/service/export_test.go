package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/service"
)

func TestExportService_Export(t *testing.T) {
	soup := domain.Recipe{
		ID:            uuid.New(),
		Name:          "Soup",
		Ingredients:   []string{"Water", "Salt"},
		Purchased:     []string{"water", "salt"},
		LocationsJSON: `{"Water":{"latitude":1,"longitude":2}}`,
	}
	tea := domain.Recipe{ID: uuid.New(), Name: "Tea", Ingredients: []string{"Leaves"}}

	svc := service.NewExportService(&mockRecipeRepo{
		list: func(_ context.Context) ([]domain.Recipe, error) { return []domain.Recipe{soup, tea}, nil },
	}, discardLogger())

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Soup", rows[0].RecipeName)
	assert.Equal(t, "Water", rows[0].Ingredient)
	assert.True(t, rows[0].Purchased)
	assert.True(t, rows[0].Ready)
	require.NotNil(t, rows[0].Location)
	assert.Equal(t, domain.LatLng{Latitude: 1, Longitude: 2}, *rows[0].Location)

	assert.Equal(t, "Salt", rows[1].Ingredient)
	assert.Nil(t, rows[1].Location)

	assert.Equal(t, tea.ID.String(), rows[2].RecipeID)
	assert.False(t, rows[2].Purchased)
	assert.False(t, rows[2].Ready)
}

func TestExportService_Export_Empty(t *testing.T) {
	svc := service.NewExportService(&mockRecipeRepo{
		list: func(_ context.Context) ([]domain.Recipe, error) { return nil, nil },
	}, discardLogger())

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
