package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/store"
)

// Models lists every table the application owns, in migration order.
var Models = []any{
	&models.User{},
	&models.InventoryItem{},
	&models.ConsumptionEntry{},
	&models.Recipe{},
	&models.AuditLog{},
}

// gormWriter sends GORM's formatted lines to zerolog.
type gormWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.WithLevel(w.level).Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// newGormLogger traces SQL at debug level and below, otherwise only warnings,
// errors and slow queries.
func newGormLogger(zl zerolog.Logger, logLevel string) gormlogger.Interface {
	level, eventLevel := gormlogger.Warn, zerolog.WarnLevel
	if logLevel == "debug" || logLevel == "trace" {
		level, eventLevel = gormlogger.Info, zerolog.DebugLevel
	}
	return gormlogger.New(gormWriter{log: zl, level: eventLevel}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Open connects to Postgres and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: newGormLogger(logging.WithComponent("gorm"), cfg.Log.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	logging.Info().Int("tables", len(Models)).Msg("database connected, migration complete")
	return db, nil
}

// NewStore returns the Store selected by cfg.DatabaseDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		logging.Warn().Msg("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	case config.DriverPostgres:
		db, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewGorm(db), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}
