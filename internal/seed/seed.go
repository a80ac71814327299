// Package seed loads the bundled starter recipes and sample pantry.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"ecoeats-backend/internal/inventory"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/store"
)

//go:embed data/recipes.yaml
var recipesYAML []byte

//go:embed data/inventory.yaml
var inventoryYAML []byte

// Recipes returns the bundled recipe catalog.
func Recipes() ([]models.Recipe, error) {
	return LoadRecipes(bytes.NewReader(recipesYAML))
}

// Inventory returns the bundled sample pantry.
func Inventory() ([]inventory.ItemInput, error) {
	return LoadInventory(bytes.NewReader(inventoryYAML))
}

// LoadRecipes decodes a YAML list of recipes. Unknown keys are rejected.
func LoadRecipes(r io.Reader) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := decodeStrict(r, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	for i := range recipes {
		if recipes[i].ID == "" {
			return nil, fmt.Errorf("recipe %d (%s): id is required", i, recipes[i].Name)
		}
		recipes[i].UsesIngredients = nonNil(recipes[i].UsesIngredients)
		recipes[i].Instructions = nonNil(recipes[i].Instructions)
		recipes[i].DietaryTags = nonNil(recipes[i].DietaryTags)
		recipes[i].Ingredients = nonNil(recipes[i].Ingredients)
	}
	return recipes, nil
}

// LoadInventory decodes a YAML list of pantry items.
func LoadInventory(r io.Reader) ([]inventory.ItemInput, error) {
	var items []inventory.ItemInput
	if err := decodeStrict(r, &items); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	return items, nil
}

func decodeStrict(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// BuildInventory turns inputs into items owned by userID, dated from now.
func BuildInventory(inputs []inventory.ItemInput, userID uint, now time.Time) ([]models.InventoryItem, error) {
	items := make([]models.InventoryItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := inventory.NewItem(in, userID, now)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, in.Name, err)
		}
		items = append(items, item)
	}
	return items, nil
}

type Options struct {
	// ForceRecipes replaces a non-empty catalog.
	ForceRecipes bool
	// PantryUserID receives the sample pantry when non-zero and the
	// user's pantry is empty.
	PantryUserID uint
	Now          time.Time
}

type Result struct {
	Recipes   int `json:"recipes"`
	Inventory int `json:"inventory"`
}

// Run seeds s. It never overwrites data unless ForceRecipes is set.
func Run(ctx context.Context, s store.Store, opts Options) (Result, error) {
	var res Result
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	existing, err := s.ListRecipes(ctx)
	if err != nil {
		return res, fmt.Errorf("list recipes: %w", err)
	}
	if len(existing) == 0 || opts.ForceRecipes {
		recipes, err := Recipes()
		if err != nil {
			return res, err
		}
		if res.Recipes, err = s.ReplaceRecipes(ctx, recipes); err != nil {
			return res, fmt.Errorf("replace recipes: %w", err)
		}
		logging.Info().Int("recipes", res.Recipes).Msg("recipe catalog seeded")
	} else {
		logging.Info().Int("recipes", len(existing)).Msg("recipe catalog already populated, skipping")
	}

	if opts.PantryUserID == 0 {
		return res, nil
	}
	pantry, err := s.ListInventory(ctx, opts.PantryUserID)
	if err != nil {
		return res, fmt.Errorf("list inventory: %w", err)
	}
	if len(pantry) > 0 {
		logging.Info().Uint("user_id", opts.PantryUserID).Msg("pantry not empty, skipping sample inventory")
		return res, nil
	}

	inputs, err := Inventory()
	if err != nil {
		return res, err
	}
	items, err := BuildInventory(inputs, opts.PantryUserID, opts.Now)
	if err != nil {
		return res, err
	}
	if err := s.CreateInventoryItems(ctx, items); err != nil {
		return res, fmt.Errorf("create inventory: %w", err)
	}
	res.Inventory = len(items)
	logging.Info().Uint("user_id", opts.PantryUserID).Int("items", res.Inventory).Msg("sample pantry seeded")
	return res, nil
}
