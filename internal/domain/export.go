package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per recipe ingredient, with recipe
// fields repeated for every ingredient.
type ExportRow struct {
	// Recipe fields, repeated for every ingredient of the recipe.
	RecipeID   string
	RecipeName string
	Ready      bool

	// Ingredient fields.
	Ingredient string
	Purchased  bool

	// Location is nil when the ingredient has no purchase annotation.
	Location *LatLng
}
