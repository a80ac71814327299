// Package cli implements the ecoeats maintenance command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/database"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/store"
)

const name = "ecoeats"

var (
	// overridden during build with ldflags
	version = "dev"

	openStore = database.NewStore
)

// Command returns the root command.
func Command() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "EcoEats maintenance tooling",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error), overrides LOG_LEVEL",
			},
		},
		Commands: []*cli.Command{
			seedCmd(),
			fetchMealDBCmd(),
			importInventoryCmd(),
			recommendCmd(),
			refreshExpirationCmd(),
		},
	}
}

// loadConfig reads the same configuration the server uses.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	logging.Init(cfg.Log)
	return cfg, nil
}

func loadStore(cmd *cli.Command) (*config.Config, store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, s, nil
}

func findUser(ctx context.Context, users store.UserStore, email string) (*models.User, error) {
	u, err := users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no user with email %q", email)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func printJSON(cmd *cli.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, string(b))
	return err
}
