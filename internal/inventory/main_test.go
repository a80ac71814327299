package inventory

import (
	"io"
	"os"
	"testing"

	"ecoeats-backend/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Init(logging.Config{Output: io.Discard})
	os.Exit(m.Run())
}
