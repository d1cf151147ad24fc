//go:build unix

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pmemkit/pmem"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 bytes"},
		{512, "512 bytes"},
		{4096, "4,096 bytes (4.0 KiB)"},
		{8 << 20, "8,388,608 bytes (8.0 MiB)"},
		{3 << 30, "3,221,225,472 bytes (3.0 GiB)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, formatBytes(tt.n))
		})
	}
}

func TestDeepSyncCommand(t *testing.T) {
	setupApp(t)
	path := newPoolFile(t, 16*1024)

	out, err := captureOutput(t, func() error {
		return runDeepSync(path, deepSyncOptions{offset: 4096, length: 128})
	})
	require.NoError(t, err)
	require.Equal(t, "SUCCESS\n", out)
}

func TestDeepSyncCommand_JSON(t *testing.T) {
	setupApp(t)
	jsonOut = true
	path := newPoolFile(t, 16*1024)

	out, err := captureOutput(t, func() error {
		return runDeepSync(path, deepSyncOptions{offset: 1024, length: -1})
	})
	require.NoError(t, err)

	var res deepSyncResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "regular", res.FileType)
	require.Equal(t, 1024, res.Offset)
	require.Equal(t, 15*1024, res.Length)
	require.Equal(t, "SUCCESS", res.Code)
	require.Empty(t, res.Error)
}

func TestDeepSyncCommand_OutOfRange(t *testing.T) {
	setupApp(t)
	path := newPoolFile(t, 4096)

	out, err := captureOutput(t, func() error {
		return runDeepSync(path, deepSyncOptions{offset: 4000, length: 200})
	})
	require.ErrorIs(t, err, pmem.ErrSyncRange)
	require.Equal(t, "E_SYNC_RANGE\n", out)
}

func TestDeepSyncCommand_Granularity(t *testing.T) {
	setupApp(t)
	path := newPoolFile(t, 4096)

	_, err := captureOutput(t, func() error {
		return runDeepSync(path, deepSyncOptions{length: -1, granularity: "byte"})
	})
	require.ErrorIs(t, err, pmem.ErrGranularityNotSupported)

	_, err = captureOutput(t, func() error {
		return runDeepSync(path, deepSyncOptions{length: -1, granularity: "nibble"})
	})
	require.ErrorIs(t, err, pmem.ErrUnsupportedGranularity)
}

func TestInfoCommand(t *testing.T) {
	setupApp(t)
	jsonOut = true
	path := newPoolFile(t, 8192)

	out, err := captureOutput(t, func() error { return runInfo(path) })
	require.NoError(t, err)

	var info mapInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, path, info.Path)
	require.Equal(t, "regular", info.FileType)
	require.Equal(t, 8192, info.Length)
	require.Contains(t, []string{"page", "cache-line"}, info.Granularity)
	require.NotEmpty(t, info.Persist)
}

func TestInfoCommand_Text(t *testing.T) {
	setupApp(t)
	path := newPoolFile(t, 8192)

	out, err := captureOutput(t, func() error { return runInfo(path) })
	require.NoError(t, err)
	require.Contains(t, out, "Type: regular")
	require.Contains(t, out, "Length: 8,192 bytes (8.0 KiB)")
}

func TestRegionCommand_RegularFile(t *testing.T) {
	setupApp(t)
	path := newPoolFile(t, 4096)

	_, err := captureOutput(t, func() error { return runRegion(path) })
	require.ErrorContains(t, err, "not a device DAX")
}

// runDeepSyncWithTextfile runs "pmemctl deep-sync" on a fresh 4 KiB pool
// through the root command and returns the metrics textfile contents.
func runDeepSyncWithTextfile(t *testing.T, offset, length string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	setupApp(t)
	require.NoError(t, current.Close())
	current = nil

	path := newPoolFile(t, 4096)
	prom := filepath.Join(t.TempDir(), "pmemkit.prom")
	rootCmd.SetArgs([]string{
		"deep-sync", path,
		"--quiet",
		"--offset=" + offset,
		"--length=" + length,
		"--sysfs-root", t.TempDir(),
		"--metrics-textfile", prom,
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	_, runErr := captureOutput(t, run)
	require.Nil(t, current, "run releases the app")

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	return string(data), runErr
}

func TestRootCommand_MetricsTextfile(t *testing.T) {
	data, err := runDeepSyncWithTextfile(t, "0", "-1")
	require.NoError(t, err)
	require.Contains(t, data, `pmemkit_deep_sync_total{code="SUCCESS",file_type="regular"`)
	require.Contains(t, data, "pmemkit_persist_info")
}

func TestRootCommand_MetricsTextfileOnFailure(t *testing.T) {
	data, err := runDeepSyncWithTextfile(t, "4000", "200")
	require.ErrorIs(t, err, pmem.ErrSyncRange)
	require.Contains(t, data, `code="E_SYNC_RANGE"`)
}
