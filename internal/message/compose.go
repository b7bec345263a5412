// Package message builds the shareable text digest for recipes and splits it
// into transport-sized segments.
package message

import (
	"fmt"
	"strings"

	"github.com/pkordes/mealmate/internal/domain"
)

// Compose renders one recipe as
//
//	Recipe: {name}
//	Ingredients: {a, b, c}
//	Instructions: {text}
//
// The Ingredients line is omitted when there are no ingredients and the
// Instructions line when the instructions are blank.
func Compose(r domain.Recipe) string {
	lines := []string{"Recipe: " + r.Name}
	if len(r.Ingredients) > 0 {
		lines = append(lines, "Ingredients: "+strings.Join(r.Ingredients, ", "))
	}
	if strings.TrimSpace(r.Instructions) != "" {
		lines = append(lines, "Instructions: "+r.Instructions)
	}
	return strings.Join(lines, "\n")
}

// Batch is the composed and segmented message for one recipe.
type Batch struct {
	Recipe   domain.Recipe
	Segments []string
}

// ComposeBatch composes and segments each recipe, keeping the caller's order.
func ComposeBatch(recipes []domain.Recipe, maxSegmentLength int) ([]Batch, error) {
	out := make([]Batch, 0, len(recipes))
	for _, r := range recipes {
		segs, err := Segment(Compose(r), maxSegmentLength)
		if err != nil {
			return nil, fmt.Errorf("message.ComposeBatch: %w", err)
		}
		out = append(out, Batch{Recipe: r, Segments: segs})
	}
	return out, nil
}
