package purchase

import "github.com/pkordes/mealmate/internal/ingredient"

// IsReady reports whether every name in ingredients has a case-insensitive
// match in purchased. Extra purchased names are ignored, so the two lists do
// not need the same length. A recipe with no ingredients is never ready.
func IsReady(ingredients, purchased []string) bool {
	if len(ingredients) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(purchased))
	for _, p := range purchased {
		have[ingredient.Key(p)] = struct{}{}
	}
	for _, n := range ingredients {
		if _, ok := have[ingredient.Key(n)]; !ok {
			return false
		}
	}
	return true
}
