package mealdb

import (
	"context"
	"errors"
	"fmt"

	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/metrics"
	"ecoeats-backend/internal/store"
)

// ErrNoRecipes guards the catalog: an empty fetch never wipes it.
var ErrNoRecipes = errors.New("no recipes fetched from TheMealDB")

// Import replaces the recipe catalog with every meal found for letters.
func Import(ctx context.Context, c *Client, recipes store.RecipeStore, letters string) (int, error) {
	meals, err := c.FetchAll(ctx, letters)
	if err != nil {
		return 0, fmt.Errorf("fetch meals: %w", err)
	}
	converted := ConvertAll(meals)
	if len(converted) == 0 {
		return 0, ErrNoRecipes
	}

	n, err := recipes.ReplaceRecipes(ctx, converted)
	if err != nil {
		return 0, fmt.Errorf("replace recipes: %w", err)
	}
	metrics.MealDBRecipesImported.Add(float64(n))
	logging.Info().Int("meals", len(meals)).Int("recipes", n).Msg("TheMealDB import complete")
	return n, nil
}
