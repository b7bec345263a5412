// Package ingredient parses and serializes the comma-joined ingredient text
// stored on a recipe, and defines the case-insensitive identity of an
// ingredient name.
package ingredient

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pkordes/mealmate/internal/domain"
)

// separator joins names in the stored form. Names containing it are not supported.
const separator = ","

// Parse splits raw on commas, trims each segment and drops empty ones.
// Blank input yields an empty, non-nil slice. Duplicates are kept in order.
func Parse(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, separator) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Serialize joins names with commas and no surrounding spaces.
func Serialize(names []string) string {
	return strings.Join(names, separator)
}

// Key returns the case-folded identity of name. Two names refer to the same
// ingredient when their keys are equal.
func Key(name string) string {
	// cases.Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(name))
}

// Equal reports whether a and b name the same ingredient.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Validate checks names against the rules for creating a recipe: at least one
// name, no blank names, no commas, and no case-insensitive duplicates.
// Errors wrap domain.ErrValidation.
func Validate(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", domain.ErrValidation)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: ingredient names must not be blank", domain.ErrValidation)
		}
		if strings.Contains(n, separator) {
			return fmt.Errorf("%w: ingredient %q must not contain a comma", domain.ErrValidation, n)
		}
		k := Key(n)
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: ingredient %q already added", domain.ErrValidation, n)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Normalize trims every name, preserving order.
func Normalize(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}
