package thread

import (
	"os"
	"testing"

	"github.com/momentics/furi-thread/internal/logging"
)

func TestMain(m *testing.M) {
	cfg := kernel.Config()
	cfg.Logger = logging.NopLogger()
	kernel.Reconfigure(cfg)
	os.Exit(m.Run())
}
