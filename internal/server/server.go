// Package server assembles the Fiber application and its routes.
package server

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecoeats-backend/internal/audit"
	"ecoeats-backend/internal/auth"
	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/inventory"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/recipes"
	"ecoeats-backend/internal/recommend"
	"ecoeats-backend/internal/store"
)

const importBodyLimit = 8 * 1024 * 1024

// errorHandler renders every error as {"error": message}.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	}
	logging.Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Unexpected server error",
	})
}

// New builds the application with every route mounted.
func New(cfg *config.Config, s store.Store, engine *recommend.Engine) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ecoeats",
		ErrorHandler:          errorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             importBodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logging.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "EcoEats API is running"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(s))
	api.Post("/auth/login", auth.LoginHandler(cfg, s))

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))
	protected.Get("/auth/me", auth.MeHandler(s))

	// Inventory, scoped to the caller
	inv := protected.Group("/inventory")
	inv.Get("/", inventory.ListItemsHandler(s))
	inv.Post("/", inventory.CreateItemHandler(s))
	inv.Get("/history", inventory.HistoryHandler(s))
	inv.Post("/import", inventory.ImportHandler(s))
	inv.Get("/:id", inventory.GetItemHandler(s))
	inv.Put("/:id", inventory.UpdateItemHandler(s))
	inv.Delete("/:id", inventory.DeleteItemHandler(s))
	inv.Post("/:id/mark-used", inventory.MarkUsedHandler(s))
	inv.Post("/:id/mark-discarded", inventory.MarkDiscardedHandler(s))

	// Recipes
	rec := protected.Group("/recipes")
	rec.Get("/", recipes.ListRecipesHandler(s))
	rec.Get("/suggestions", recipes.SuggestionsHandler(s, engine))
	rec.Get("/lookup", recipes.LookupHandler(s))
	rec.Get("/:id", recipes.GetRecipeHandler(s))

	// Admin only
	adminOnly := auth.RequireRole(models.RoleAdmin)
	rec.Post("/", adminOnly, recipes.CreateRecipeHandler(s))
	rec.Delete("/:id", adminOnly, recipes.DeleteRecipeHandler(s))
	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler(s))

	return app
}
