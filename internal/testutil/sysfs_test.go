//go:build linux

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestSysfsTree_Layout(t *testing.T) {
	tree := NewSysfsTree(t)
	dev := unix.Mkdev(252, 3)
	tree.AddDaxDevice(dev, 7, 4096)
	control := tree.AddRegion(7, "cpu_cache")

	require.Equal(t, filepath.Join(tree.Root, "sys/dev/char/252:3"), tree.CharDevDir(dev))

	target, err := filepath.EvalSymlinks(filepath.Join(tree.CharDevDir(dev), "subsystem"))
	require.NoError(t, err)
	require.Equal(t, "dax", filepath.Base(target))

	id, err := os.ReadFile(filepath.Join(tree.CharDevDir(dev), "device/dax_region/id"))
	require.NoError(t, err)
	require.Equal(t, "7\n", string(id))

	require.Equal(t, filepath.Join(tree.Root, "sys/bus/nd/devices/region7/deep_flush"), control)
	require.Empty(t, tree.DeepFlush(7))
}
