package recipes

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"ecoeats-backend/internal/audit"
	"ecoeats-backend/internal/auth"
	"ecoeats-backend/internal/inventory"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/metrics"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/recommend"
	"ecoeats-backend/internal/store"
	"ecoeats-backend/internal/validation"
)

var timeNow = time.Now

type CreateRecipeRequest struct {
	ID              string   `json:"id" validate:"omitempty,max=64"`
	Name            string   `json:"name" validate:"required,max=200"`
	CuisineType     string   `json:"cuisine_type" validate:"required,max=100"`
	PrepTime        int      `json:"prep_time" validate:"gte=0"`
	UsesIngredients []string `json:"uses_ingredients" validate:"dive,required"`
	Instructions    []string `json:"instructions"`
	DietaryTags     []string `json:"dietary_tags"`
	Ingredients     []string `json:"ingredients"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r CreateRecipeRequest) toModel() models.Recipe {
	return models.Recipe{
		ID:              strings.TrimSpace(r.ID),
		Name:            strings.TrimSpace(r.Name),
		CuisineType:     strings.TrimSpace(r.CuisineType),
		PrepTime:        r.PrepTime,
		UsesIngredients: nonNil(r.UsesIngredients),
		Instructions:    nonNil(r.Instructions),
		DietaryTags:     nonNil(r.DietaryTags),
		Ingredients:     nonNil(r.Ingredients),
	}
}

// GET /api/recipes/
func ListRecipesHandler(s store.RecipeStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipes, err := s.ListRecipes(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list recipes")
		}
		if recipes == nil {
			recipes = []models.Recipe{}
		}
		return c.JSON(recipes)
	}
}

// GET /api/recipes/:id/
func GetRecipeHandler(s store.RecipeStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipe, err := s.GetRecipe(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
			}
			return err
		}
		return c.JSON(recipe)
	}
}

// POST /api/recipes/ (admin)
func CreateRecipeHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		recipe := body.toModel()
		if err := s.CreateRecipe(c.UserContext(), &recipe); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "recipe id already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create recipe")
		}

		userID, _ := auth.UserID(c)
		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityRecipe,
			EntityID:    recipe.ID,
			Action:      models.AuditActionCreate,
			Description: "created recipe " + recipe.Name,
			After:       recipe,
		})

		return c.Status(fiber.StatusCreated).JSON(recipe)
	}
}

// DELETE /api/recipes/:id/ (admin)
func DeleteRecipeHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		recipe, err := s.GetRecipe(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Recipe not found")
			}
			return err
		}
		if err := s.DeleteRecipe(c.UserContext(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete recipe")
		}

		userID, _ := auth.UserID(c)
		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityRecipe,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "deleted recipe " + recipe.Name,
			Before:      recipe,
		})

		return c.JSON(fiber.Map{"message": "Recipe deleted successfully"})
	}
}

// GET /api/recipes/suggestions/?limit=5&explain=true
//
// Ranks every recipe against the caller's pantry. With explain=true the
// scores are returned alongside each recipe.
func SuggestionsHandler(s store.Store, engine *recommend.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		limit := c.QueryInt("limit", 0)
		explain := c.QueryBool("explain", false)

		items, err := s.ListInventory(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load inventory")
		}
		recipes, err := s.ListRecipes(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load recipes")
		}

		start := time.Now()
		ranked := engine.Rank(inventory.WithFreshDays(items, timeNow()), recipes, limit)

		mode := "suggest"
		if explain {
			mode = "explain"
		}
		metrics.RecordRecommendation(mode, len(ranked), time.Since(start))
		logging.Debug().
			Uint("user_id", userID).
			Int("inventory", len(items)).
			Int("recipes", len(recipes)).
			Int("results", len(ranked)).
			Msg("recipe suggestions generated")

		if explain {
			return c.JSON(ranked)
		}
		out := make([]models.Recipe, len(ranked))
		for i := range ranked {
			out[i] = ranked[i].Recipe
		}
		return c.JSON(out)
	}
}

// GET /api/recipes/lookup?ingredients=eggs,flour
// An empty list matches every recipe.
func LookupHandler(s store.RecipeStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := recommend.ParseIngredientList(c.Query("ingredients"))
		recipes, err := s.ListRecipes(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load recipes")
		}

		start := time.Now()
		found := recommend.Lookup(recipes, query)
		metrics.RecordRecommendation("lookup", len(found), time.Since(start))
		return c.JSON(found)
	}
}
