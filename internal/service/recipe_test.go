package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/repo"
	"github.com/pkordes/mealmate/internal/service"
)

// mockRecipeRepo is a hand-written test double for repo.RecipeRepo.
// Each method is a function field; set only the ones your test needs.
type mockRecipeRepo struct {
	create          func(ctx context.Context, r domain.Recipe) (domain.Recipe, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Recipe, error)
	list            func(ctx context.Context) ([]domain.Recipe, error)
	listPaged       func(ctx context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error)
	listByIDs       func(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)
	updatePurchases func(ctx context.Context, id uuid.UUID, purchased []string, locationsJSON string) (domain.Recipe, error)
	delete          func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRecipeRepo) Create(ctx context.Context, r domain.Recipe) (domain.Recipe, error) {
	return m.create(ctx, r)
}
func (m *mockRecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	return m.getByID(ctx, id)
}
func (m *mockRecipeRepo) List(ctx context.Context) ([]domain.Recipe, error) {
	return m.list(ctx)
}
func (m *mockRecipeRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockRecipeRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error) {
	return m.listByIDs(ctx, ids)
}
func (m *mockRecipeRepo) UpdatePurchases(ctx context.Context, id uuid.UUID, purchased []string, locationsJSON string) (domain.Recipe, error) {
	return m.updatePurchases(ctx, id, purchased, locationsJSON)
}
func (m *mockRecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockRecipeRepo must satisfy repo.RecipeRepo.
var _ repo.RecipeRepo = (*mockRecipeRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRecipe() domain.Recipe {
	return domain.Recipe{
		Name:         "Pancakes",
		Ingredients:  []string{"Egg", "Milk", "Flour"},
		Instructions: "Mix and fry",
	}
}

func echoRepo() *mockRecipeRepo {
	return &mockRecipeRepo{
		create: func(_ context.Context, r domain.Recipe) (domain.Recipe, error) {
			r.ID = uuid.New()
			return r, nil
		},
	}
}

// ---- Create ----------------------------------------------------------------

func TestRecipeService_Create_Valid(t *testing.T) {
	svc := service.NewRecipeService(echoRepo(), discardLogger())

	in := validRecipe()
	in.Name = "  Pancakes  "
	in.Ingredients = []string{" Egg", "Milk ", "Flour"}
	in.Purchased = []string{"Egg"}
	in.LocationsJSON = `{"Egg":{"latitude":1,"longitude":1}}`

	got, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, []string{"Egg", "Milk", "Flour"}, got.Ingredients)
	assert.Empty(t, got.Purchased, "a new recipe starts with nothing purchased")
	assert.Equal(t, "", got.LocationsJSON)
}

func TestRecipeService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.Recipe)
	}{
		{"blank name", func(r *domain.Recipe) { r.Name = "   " }},
		{"no ingredients", func(r *domain.Recipe) { r.Ingredients = nil }},
		{"blank ingredient", func(r *domain.Recipe) { r.Ingredients = []string{"Egg", "  "} }},
		{"duplicate ingredient", func(r *domain.Recipe) { r.Ingredients = []string{"Egg", "egg"} }},
		{"comma in ingredient", func(r *domain.Recipe) { r.Ingredients = []string{"Salt, pepper"} }},
		{"blank instructions", func(r *domain.Recipe) { r.Instructions = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			svc := service.NewRecipeService(&mockRecipeRepo{
				create: func(_ context.Context, r domain.Recipe) (domain.Recipe, error) {
					called = true
					return r, nil
				},
			}, discardLogger())

			r := validRecipe()
			tc.mutate(&r)
			_, err := svc.Create(context.Background(), r)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.False(t, called, "repo must not be called for invalid input")
		})
	}
}

func TestRecipeService_Create_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewRecipeService(&mockRecipeRepo{
		create: func(_ context.Context, _ domain.Recipe) (domain.Recipe, error) { return domain.Recipe{}, boom },
	}, discardLogger())

	_, err := svc.Create(context.Background(), validRecipe())

	assert.ErrorIs(t, err, boom)
}

// ---- reads -----------------------------------------------------------------

func TestRecipeService_GetByID_NotFound(t *testing.T) {
	svc := service.NewRecipeService(&mockRecipeRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Recipe, error) {
			return domain.Recipe{}, domain.ErrNotFound
		},
	}, discardLogger())

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeService_List_NilBecomesEmpty(t *testing.T) {
	svc := service.NewRecipeService(&mockRecipeRepo{
		list: func(_ context.Context) ([]domain.Recipe, error) { return nil, nil },
	}, discardLogger())

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecipeService_ListPaged(t *testing.T) {
	var gotParams domain.PaginationParams
	svc := service.NewRecipeService(&mockRecipeRepo{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error) {
			gotParams = p
			return nil, 7, nil
		},
	}, discardLogger())

	page := 2
	items, total, err := svc.ListPaged(context.Background(), domain.NewPaginationParams(&page, nil))

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, int64(7), total)
	assert.Equal(t, 2, gotParams.Page)
}

func TestRecipeService_Delete(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	svc := service.NewRecipeService(&mockRecipeRepo{
		delete: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	}, discardLogger())

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, id, deleted)
}

// ---- LocationText ----------------------------------------------------------

func TestRecipeService_LocationText(t *testing.T) {
	r := validRecipe()
	r.ID = uuid.New()
	r.Purchased = []string{"Egg"}
	r.LocationsJSON = `{"Egg":{"latitude":52.52,"longitude":13.405}}`
	svc := service.NewRecipeService(&mockRecipeRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Recipe, error) { return r, nil },
	}, discardLogger())

	text, err := svc.LocationText(context.Background(), r.ID, "EGG")

	require.NoError(t, err)
	assert.Equal(t, "52.52, 13.405", text)

	_, err = svc.LocationText(context.Background(), r.ID, "Milk")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeService_LocationText_MalformedMap(t *testing.T) {
	r := validRecipe()
	r.Purchased = []string{"Egg"}
	r.LocationsJSON = `not json`
	svc := service.NewRecipeService(&mockRecipeRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Recipe, error) { return r, nil },
	}, discardLogger())

	_, err := svc.LocationText(context.Background(), uuid.New(), "Egg")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
