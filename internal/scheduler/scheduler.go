// Package scheduler runs background maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/metrics"
	"ecoeats-backend/internal/store"
)

const refreshTimeout = 5 * time.Minute

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

type Scheduler struct {
	cron  *cron.Cron
	store store.InventoryStore
	log   zerolog.Logger
	now   func() time.Time
}

// New builds a scheduler. An empty ExpirationRefreshSpec registers no job.
func New(cfg config.SchedulerConfig, s store.InventoryStore) (*Scheduler, error) {
	loc := time.Local
	if cfg.Location != "" {
		l, err := time.LoadLocation(cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("scheduler location %q: %w", cfg.Location, err)
		}
		loc = l
	}

	log := logging.WithComponent("scheduler")
	cl := cronLogger{log: log}
	sch := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cronParser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		store: s,
		log:   log,
		now:   time.Now,
	}

	if cfg.ExpirationRefreshSpec != "" {
		if _, err := sch.cron.AddFunc(cfg.ExpirationRefreshSpec, sch.refreshJob); err != nil {
			return nil, fmt.Errorf("schedule expiration refresh %q: %w", cfg.ExpirationRefreshSpec, err)
		}
		log.Info().Str("spec", cfg.ExpirationRefreshSpec).Str("location", loc.String()).Msg("expiration refresh scheduled")
	}
	return sch, nil
}

func (s *Scheduler) refreshJob() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	_, _ = RefreshExpiration(ctx, s.store, s.now())
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshExpiration recomputes days-until-expiration for every stored item.
func RefreshExpiration(ctx context.Context, s store.InventoryStore, now time.Time) (int, error) {
	start := time.Now()
	n, err := s.RefreshExpiration(ctx, now)
	metrics.RecordExpirationRefresh(n, err)
	if err != nil {
		logging.Err(err).Msg("expiration refresh failed")
		return n, fmt.Errorf("refresh expiration: %w", err)
	}
	logging.Info().Int("updated", n).Dur("took", time.Since(start)).Msg("expiration refresh complete")
	return n, nil
}
