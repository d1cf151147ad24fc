package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pmemkit/internal/config"
	"github.com/joshuapare/pmemkit/internal/logger"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// setupApp builds current from defaults rooted at an empty sysfs tree and
// restores global state when the test ends.
func setupApp(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Sysfs.Root = t.TempDir()
	cfg.Logging.Output = filepath.Join(t.TempDir(), "pmemctl.log")

	a, err := newApp(cfg)
	require.NoError(t, err)
	current = a

	t.Cleanup(func() {
		if current != nil {
			_ = current.Close()
		}
		current = nil
		verbose, quiet, jsonOut = false, false, false
		configPath, sysfsRoot, metricsTextfile = "", "", ""
		_, _ = logger.Init(logger.Options{})
	})
	return cfg
}

// newPoolFile creates a zero-filled regular file of size bytes.
func newPoolFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}
