package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/database"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/recommend"
	"ecoeats-backend/internal/scheduler"
	"ecoeats-backend/internal/seed"
	"ecoeats-backend/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Log)
	if err := cfg.ValidateServer(); err != nil {
		logging.Fatal().Err(err).Msg("invalid server configuration")
	}

	s, err := database.NewStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, s, seed.Options{}); err != nil {
			logging.Fatal().Err(err).Msg("seeding failed")
		}
	}

	sched, err := scheduler.New(cfg.Scheduler, s)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to configure scheduler")
	}
	sched.Start()

	app := server.New(cfg, s, recommend.New(recommend.WithDefaultLimit(cfg.Recommend.Limit)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logging.Err(err).Msg("http shutdown")
		}
		if err := sched.Stop(shutdownCtx); err != nil {
			logging.Err(err).Msg("scheduler shutdown")
		}
	}()

	logging.Info().Str("port", cfg.HTTPPort).Str("driver", cfg.DatabaseDriver).Msg("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
	<-done
}
