// Package repo contains all database access logic for the MealMate service.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/ingredient"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecipeRepo defines the persistence operations for Recipes.
// The service layer depends on this interface, not the Postgres implementation.
type RecipeRepo interface {
	// Create inserts a new recipe and returns the persisted record with its
	// DB-generated id and timestamps.
	Create(ctx context.Context, r domain.Recipe) (domain.Recipe, error)

	// GetByID retrieves a single recipe.
	// Returns domain.ErrNotFound if no recipe with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error)

	// List returns all recipes, newest first.
	List(ctx context.Context) ([]domain.Recipe, error)

	// ListPaged returns one page of recipes, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error)

	// ListByIDs returns the recipes whose IDs are in ids, in no particular order.
	// Unknown IDs are silently absent from the result.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error)

	// UpdatePurchases overwrites the purchased names and the encoded location
	// map of a recipe. Returns domain.ErrNotFound if the recipe does not exist.
	UpdatePurchases(ctx context.Context, id uuid.UUID, purchased []string, locationsJSON string) (domain.Recipe, error)

	// Delete removes a recipe by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgRecipeRepo is the Postgres implementation of RecipeRepo.
type pgRecipeRepo struct {
	db db
}

// NewRecipeRepo constructs a RecipeRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRecipeRepo(db db) RecipeRepo {
	return &pgRecipeRepo{db: db}
}

const recipeColumns = `id, name, ingredients, purchased_ingredients, instructions,
		       purchased_ingredient_locations_json, created_at, updated_at`

// Create inserts a new recipe row and returns the full persisted record.
func (r *pgRecipeRepo) Create(ctx context.Context, rec domain.Recipe) (domain.Recipe, error) {
	const q = `
		INSERT INTO recipes (name, ingredients, purchased_ingredients, instructions,
		                     purchased_ingredient_locations_json)
		VALUES (@name, @ingredients, @purchased, @instructions, @locations)
		RETURNING ` + recipeColumns

	args := pgx.NamedArgs{
		"name":         rec.Name,
		"ingredients":  ingredient.Serialize(rec.Ingredients),
		"purchased":    ingredient.Serialize(rec.Purchased),
		"instructions": rec.Instructions,
		"locations":    rec.LocationsJSON,
	}

	result, err := scanRecipe(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a recipe by primary key.
func (r *pgRecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	const q = `SELECT ` + recipeColumns + ` FROM recipes WHERE id = @id`

	result, err := scanRecipe(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns every recipe ordered by created_at descending.
func (r *pgRecipeRepo) List(ctx context.Context) ([]domain.Recipe, error) {
	const q = `SELECT ` + recipeColumns + ` FROM recipes ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.List: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.List: %w", err)
	}
	return recipes, nil
}

// ListPaged returns one page of recipes and the total row count.
func (r *pgRecipeRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error) {
	const countQ = `SELECT count(*) FROM recipes`
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.ListPaged: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.ListPaged: %w", err)
	}
	return recipes, total, nil
}

// ListByIDs returns the recipes matching ids.
func (r *pgRecipeRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error) {
	const q = `SELECT ` + recipeColumns + ` FROM recipes WHERE id = ANY(@ids::uuid[])`

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": strs})
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.ListByIDs: %w", err)
	}
	recipes, err := collectRecipes(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.ListByIDs: %w", err)
	}
	return recipes, nil
}

// UpdatePurchases writes the purchase columns and bumps updated_at.
func (r *pgRecipeRepo) UpdatePurchases(ctx context.Context, id uuid.UUID, purchased []string, locationsJSON string) (domain.Recipe, error) {
	const q = `
		UPDATE recipes
		SET purchased_ingredients               = @purchased,
		    purchased_ingredient_locations_json = @locations,
		    updated_at                          = now()
		WHERE id = @id
		RETURNING ` + recipeColumns

	args := pgx.NamedArgs{
		"id":        id,
		"purchased": ingredient.Serialize(purchased),
		"locations": locationsJSON,
	}

	result, err := scanRecipe(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.UpdatePurchases: %w", err)
	}
	return result, nil
}

// Delete removes a recipe by primary key.
func (r *pgRecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM recipes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RecipeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RecipeRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecipe maps a single row into a domain.Recipe. The comma-joined
// ingredient columns are parsed back into slices.
func scanRecipe(s scanner) (domain.Recipe, error) {
	var (
		rec         domain.Recipe
		id          pgtype.UUID
		ingredients string
		purchased   string
	)

	err := s.Scan(&id, &rec.Name, &ingredients, &purchased, &rec.Instructions,
		&rec.LocationsJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recipe{}, domain.ErrNotFound
		}
		return domain.Recipe{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Ingredients = ingredient.Parse(ingredients)
	rec.Purchased = ingredient.Parse(purchased)
	return rec, nil
}

func collectRecipes(rows pgx.Rows) ([]domain.Recipe, error) {
	defer rows.Close()

	recipes := []domain.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return recipes, nil
}
