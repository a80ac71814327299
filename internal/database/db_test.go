package database

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoeats-backend/internal/config"
	"ecoeats-backend/internal/store"
)

func TestNewStoreMemory(t *testing.T) {
	s, err := NewStore(&config.Config{DatabaseDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s)
}

func TestNewStoreUnknownDriver(t *testing.T) {
	_, err := NewStore(&config.Config{DatabaseDriver: "sqlite"})
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestGormLoggerWritesThroughZerolog(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	tests := []struct {
		name      string
		logLevel  string
		wantLevel string
		wantInfo  bool
	}{
		{"default keeps warnings only", "info", `"level":"warn"`, false},
		{"debug traces everything", "debug", `"level":"debug"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			zl := zerolog.New(&buf).Level(zerolog.TraceLevel).With().Str("component", "gorm").Logger()
			lg := newGormLogger(zl, tt.logLevel)

			lg.Warn(context.Background(), "slow migration on %s", "recipes")
			lg.Info(context.Background(), "connected to %s", "ecoeats")

			out := buf.String()
			assert.Contains(t, out, `"component":"gorm"`)
			assert.Contains(t, out, "slow migration on recipes")
			assert.Contains(t, out, tt.wantLevel)
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("connected to ecoeats")))
		})
	}
}
