package mealdb

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ecoeats-backend/internal/models"
)

const (
	maxIngredientSlots = 20

	defaultName    = "Unknown Recipe"
	defaultCuisine = "International"
)

// blank treats the literal string "null", which the API sometimes sends,
// like an empty value.
func blank(s string) bool {
	return s == "" || strings.EqualFold(s, "null")
}

// Convert maps a meal onto a Recipe. It reports false for an empty meal.
//
// Display ingredients are "measure ingredient"; required ingredients are
// the lower-cased ingredient names. Instructions are split one step per
// line. Prep time is estimated from the step count: 60 minutes above
// eight steps, 15 below four, else 30.
func Convert(m Meal) (models.Recipe, bool) {
	if len(m) == 0 {
		return models.Recipe{}, false
	}

	ingredients := make([]string, 0, maxIngredientSlots)
	uses := make([]string, 0, maxIngredientSlots)
	for i := 1; i <= maxIngredientSlots; i++ {
		ing := m.Field(fmt.Sprintf("strIngredient%d", i))
		if blank(ing) {
			continue
		}
		measure := m.Field(fmt.Sprintf("strMeasure%d", i))
		if blank(measure) {
			ingredients = append(ingredients, ing)
		} else {
			ingredients = append(ingredients, measure+" "+ing)
		}
		uses = append(uses, strings.ToLower(ing))
	}

	instructions := make([]string, 0)
	text := strings.ReplaceAll(m.Field("strInstructions"), "\r\n", "\n")
	for _, step := range strings.Split(text, "\n") {
		if step = strings.TrimSpace(step); step != "" {
			instructions = append(instructions, step)
		}
	}

	tags := make([]string, 0, 2)
	category := strings.ToLower(m.Field("strCategory"))
	if strings.Contains(category, "vegetarian") || strings.Contains(category, "veggie") {
		tags = append(tags, "vegetarian")
	}
	if strings.Contains(category, "vegan") {
		tags = append(tags, "vegan")
	}

	prep := 30
	switch {
	case len(instructions) > 8:
		prep = 60
	case len(instructions) < 4:
		prep = 15
	}

	name := m.Field("strMeal")
	if name == "" {
		name = defaultName
	}
	cuisine := m.Field("strArea")
	if cuisine == "" {
		cuisine = defaultCuisine
	}
	id := m.Field("idMeal")
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
	}

	return models.Recipe{
		ID:              id,
		Name:            name,
		CuisineType:     cuisine,
		PrepTime:        prep,
		UsesIngredients: uses,
		Instructions:    instructions,
		DietaryTags:     tags,
		Ingredients:     ingredients,
	}, true
}

// ConvertAll converts meals, keeping the first recipe for any repeated id.
func ConvertAll(meals []Meal) []models.Recipe {
	seen := make(map[string]struct{}, len(meals))
	out := make([]models.Recipe, 0, len(meals))
	for _, m := range meals {
		r, ok := Convert(m)
		if !ok {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
