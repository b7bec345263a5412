package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/message"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:1/unused")

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}, {"recipes"}, {"share"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestShareCommand_RequiresRecipeIDs(t *testing.T) {
	_, err := runCLI(t, "share", "--to", "+15550100")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestShareCommand_RejectsInvalidID(t *testing.T) {
	_, err := runCLI(t, "share", "--dry-run", "not-a-uuid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid recipe id "not-a-uuid"`)
}

func TestShareCommand_RequiresDestination(t *testing.T) {
	_, err := runCLI(t, "share", uuid.NewString())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to is required")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "")

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"recipes"})
	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestParseRecipeIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseRecipeIDs([]string{a.String(), " " + b.String() + " "})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestRecipeRows(t *testing.T) {
	id := uuid.New()
	recipes := []domain.Recipe{
		{ID: id, Name: "Pancakes", Ingredients: []string{"Flour", "Egg"}, Purchased: []string{"egg", "Sugar"}},
		{ID: id, Name: "Toast", Ingredients: []string{"Bread"}, Purchased: []string{"Bread"}},
	}

	rows := recipeRows(recipes)

	assert.Equal(t, [][]string{
		{id.String(), "Pancakes", "1/2", "no"},
		{id.String(), "Toast", "1/1", "yes"},
	}, rows)
}

func TestIngredientRows(t *testing.T) {
	r := domain.Recipe{
		Name:          "Pancakes",
		Ingredients:   []string{"Flour", "Egg"},
		Purchased:     []string{"Egg"},
		LocationsJSON: `{"Egg":{"latitude":1.5,"longitude":-2}}`,
	}

	assert.Equal(t, [][]string{
		{"Flour", "no", ""},
		{"Egg", "yes", "1.5, -2"},
	}, ingredientRows(r))
}

func TestMigrationRows(t *testing.T) {
	applied := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	statuses := []*goose.MigrationStatus{
		{Source: &goose.Source{Version: 1, Path: "00001_create_recipes.sql"}, State: goose.StateApplied, AppliedAt: applied},
		{Source: &goose.Source{Version: 2, Path: "00002_next.sql"}, State: goose.StatePending},
	}

	assert.Equal(t, [][]string{
		{"1", "applied", "2026-03-01 12:30:00", "00001_create_recipes.sql"},
		{"2", "pending", "-", "00002_next.sql"},
	}, migrationRows(statuses))
}

func TestFormatBatches(t *testing.T) {
	batches := []message.Batch{
		{Recipe: domain.Recipe{Name: "Toast"}, Segments: []string{"Recipe: To", "ast"}},
		{Recipe: domain.Recipe{Name: "Tea"}, Segments: []string{"Recipe: Tea"}},
	}

	assert.Equal(t,
		"== Toast (2 segment(s))\n[1/2] Recipe: To\n[2/2] ast\n\n== Tea (1 segment(s))\n[1/1] Recipe: Tea\n",
		formatBatches(batches))
}
