package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/recommend"
	"ecoeats-backend/internal/store"
)

func TestBundledRecipes(t *testing.T) {
	recipes, err := Recipes()
	require.NoError(t, err)
	require.Len(t, recipes, 25)

	ids := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.UsesIngredients, r.ID)
		assert.NotNil(t, r.DietaryTags, r.ID)
	}
	assert.True(t, ids["legacy-scrambled-eggs"])
}

func TestBundledInventory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	inputs, err := Inventory()
	require.NoError(t, err)
	require.Len(t, inputs, 20)

	items, err := BuildInventory(inputs, 4, now)
	require.NoError(t, err)

	byName := make(map[string]models.InventoryItem, len(items))
	for _, it := range items {
		byName[it.Name] = it
	}
	beef := byName["Ground Beef"]
	assert.Equal(t, 2, beef.DaysUntilExpiration)
	assert.Equal(t, 3, beef.TotalShelfLife)
	assert.Equal(t, "2025-05-31", beef.PurchaseDate.Format("2006-01-02"))
	assert.Equal(t, uint(4), beef.UserID)
}

func TestLoadRecipesRejects(t *testing.T) {
	_, err := LoadRecipes(strings.NewReader("- id: x\n  colour: red\n"))
	assert.ErrorContains(t, err, "colour")

	_, err = LoadRecipes(strings.NewReader("- name: no id\n"))
	assert.ErrorContains(t, err, "id is required")

	recipes, err := LoadRecipes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	res, err := Run(ctx, s, Options{PantryUserID: 1, Now: now})
	require.NoError(t, err)
	assert.Equal(t, Result{Recipes: 25, Inventory: 20}, res)

	res, err = Run(ctx, s, Options{PantryUserID: 1, Now: now})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res, "second run is a no-op")

	res, err = Run(ctx, s, Options{ForceRecipes: true, Now: now})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Recipes)
}

func TestSamplePantryProducesSuggestions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recipes, err := Recipes()
	require.NoError(t, err)
	inputs, err := Inventory()
	require.NoError(t, err)
	items, err := BuildInventory(inputs, 1, now)
	require.NoError(t, err)

	ranked := recommend.New().Rank(items, recipes, 0)
	require.NotEmpty(t, ranked)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Urgency, ranked[i].Urgency)
	}
}
