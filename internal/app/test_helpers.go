package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/plangen/internal/registry"
	"github.com/specialistvlad/plangen/internal/testutil"
)

// SetupAppTest creates a new app instance with debug logging captured in the
// returned buffer. Setting PLANGEN_TEST_LOGS=true dumps the buffer when the
// test ends.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	testApp := NewApp(logBuffer, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("PLANGEN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
