package recommend

import (
	"strings"

	"ecoeats-backend/internal/models"
)

// ParseIngredientList splits a comma separated query into lower-cased,
// trimmed names, dropping blanks.
func ParseIngredientList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Lookup is the simpler matcher kept for the ingredient search page: a recipe
// is returned when its required-ingredient list contains every queried name
// verbatim (case-insensitive). No normalization or synonyms apply, and an
// empty query matches every recipe.
func Lookup(recipes []models.Recipe, query []string) []models.Recipe {
	out := make([]models.Recipe, 0)
	for _, r := range recipes {
		have := make(map[string]struct{}, len(r.UsesIngredients))
		for _, ing := range r.UsesIngredients {
			have[strings.ToLower(strings.TrimSpace(ing))] = struct{}{}
		}
		all := true
		for _, q := range query {
			if _, ok := have[q]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, r)
		}
	}
	return out
}
