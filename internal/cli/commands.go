package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"ecoeats-backend/internal/inventory"
	"ecoeats-backend/internal/mealdb"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/recommend"
	"ecoeats-backend/internal/scheduler"
	"ecoeats-backend/internal/seed"
)

func userEmailFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "user-email",
		Usage:    "email of the account that owns the inventory",
		Required: required,
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load the built-in recipe catalog and, optionally, a sample pantry",
		Description: `Seeds the recipe catalog when it is empty. With --force the catalog is
replaced even when populated. With --user-email the sample pantry is added to
that user's inventory if it is empty.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "replace an existing recipe catalog",
			},
			userEmailFlag(false),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, s, err := loadStore(cmd)
			if err != nil {
				return err
			}
			opts := seed.Options{ForceRecipes: cmd.Bool("force")}
			if email := cmd.String("user-email"); email != "" {
				u, err := findUser(ctx, s, email)
				if err != nil {
					return err
				}
				opts.PantryUserID = u.ID
			}
			res, err := seed.Run(ctx, s, opts)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			return printJSON(cmd, res)
		},
	}
}

func fetchMealDBCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch-mealdb",
		Usage: "Replace the recipe catalog with recipes from TheMealDB",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "letters",
				Usage: "first letters to search, defaults to mealdb.letters",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, s, err := loadStore(cmd)
			if err != nil {
				return err
			}
			letters := cmd.String("letters")
			if letters == "" {
				letters = cfg.MealDB.Letters
			}
			n, err := mealdb.Import(ctx, mealdb.NewClient(cfg.MealDB), s, letters)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int{"recipes": n})
		},
	}
}

func importInventoryCmd() *cli.Command {
	return &cli.Command{
		Name:  "import-inventory",
		Usage: "Import inventory items from a CSV or XLSX file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path to a .csv or .xlsx file",
				Required: true,
			},
			userEmailFlag(true),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, s, err := loadStore(cmd)
			if err != nil {
				return err
			}
			u, err := findUser(ctx, s, cmd.String("user-email"))
			if err != nil {
				return err
			}

			path := cmd.String("file")
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			rows, err := inventory.Parse(filepath.Base(path), f)
			if err != nil {
				return err
			}
			items, err := inventory.BuildItems(rows, u.ID, time.Now())
			if err != nil {
				return err
			}
			if err := s.CreateInventoryItems(ctx, items); err != nil {
				return fmt.Errorf("create inventory: %w", err)
			}
			return printJSON(cmd, map[string]int{"imported": len(items)})
		},
	}
}

func recommendCmd() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Rank recipes against a pantry offline, from YAML files",
		Description: `Runs the recommendation engine without a database. Recipes and inventory
default to the built-in seed data.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "recipes",
				Usage: "recipe catalog YAML file",
			},
			&cli.StringFlag{
				Name:  "inventory",
				Usage: "inventory YAML file",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: recommend.DefaultLimit,
				Usage: "maximum number of recipes",
			},
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "include scores in the output",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			recipes, err := readRecipes(cmd.String("recipes"))
			if err != nil {
				return err
			}
			inputs, err := readInventory(cmd.String("inventory"))
			if err != nil {
				return err
			}
			items, err := seed.BuildInventory(inputs, 0, time.Now())
			if err != nil {
				return err
			}

			ranked := recommend.New().Rank(items, recipes, int(cmd.Int("limit")))
			if cmd.Bool("explain") {
				return printJSON(cmd, ranked)
			}
			out := make([]models.Recipe, len(ranked))
			for i := range ranked {
				out[i] = ranked[i].Recipe
			}
			return printJSON(cmd, out)
		},
	}
}

func readRecipes(path string) ([]models.Recipe, error) {
	if path == "" {
		return seed.Recipes()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return seed.LoadRecipes(f)
}

func readInventory(path string) ([]inventory.ItemInput, error) {
	if path == "" {
		return seed.Inventory()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return seed.LoadInventory(f)
}

func refreshExpirationCmd() *cli.Command {
	return &cli.Command{
		Name:  "refresh-expiration",
		Usage: "Recompute days until expiration for every inventory item",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, s, err := loadStore(cmd)
			if err != nil {
				return err
			}
			n, err := scheduler.RefreshExpiration(ctx, s, time.Now())
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int{"updated": n})
		},
	}
}
