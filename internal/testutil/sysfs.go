//go:build linux

// Package testutil fabricates the parts of Linux sysfs that pmemkit reads, so
// device-DAX code paths can be tested without persistent memory.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// SysfsTree is a fake sysfs rooted at a temporary directory. Pass Root to
// region.NewSysfs or pmem.WithSysfsRoot.
type SysfsTree struct {
	t    testing.TB
	Root string
}

// NewSysfsTree creates an empty tree with the "dax" and "mem" device classes.
//
// Example:
//
//	tree := testutil.NewSysfsTree(t)
//	tree.AddDaxDevice(unix.Mkdev(252, 0), 0, 1<<30)
//	tree.AddRegion(0, "memory_controller")
//	s := region.NewSysfs(tree.Root)
func NewSysfsTree(t testing.TB) *SysfsTree {
	t.Helper()
	s := &SysfsTree{t: t, Root: t.TempDir()}
	s.mkdir("sys/class/dax")
	s.mkdir("sys/class/mem")
	return s
}

// CharDevDir returns the absolute path of /sys/dev/char/<major>:<minor>.
func (s *SysfsTree) CharDevDir(devID uint64) string {
	return filepath.Join(s.Root, "sys/dev/char", fmt.Sprintf("%d:%d", unix.Major(devID), unix.Minor(devID)))
}

// AddDaxDevice registers devID as a device DAX of size bytes owned by region.
func (s *SysfsTree) AddDaxDevice(devID, region uint64, size int64) {
	s.t.Helper()
	dir := s.addCharDevice(devID, "dax")
	s.write(filepath.Join(dir, "device/dax_region/id"), strconv.FormatUint(region, 10)+"\n")
	s.write(filepath.Join(dir, "size"), strconv.FormatInt(size, 10)+"\n")
}

// AddMemDevice registers devID as an ordinary character device.
func (s *SysfsTree) AddMemDevice(devID uint64) {
	s.t.Helper()
	s.addCharDevice(devID, "mem")
}

// AddRegion creates region<id> with an empty deep_flush file and, unless
// domain is empty, a persistence_domain attribute. It returns the
// deep_flush path.
func (s *SysfsTree) AddRegion(id uint64, domain string) string {
	s.t.Helper()
	control := filepath.Join(s.regionDir(id), "deep_flush")
	s.write(control, "")
	if domain != "" {
		s.write(filepath.Join(s.regionDir(id), "persistence_domain"), domain+"\n")
	}
	return control
}

// DeepFlush returns the current contents of region<id>/deep_flush.
func (s *SysfsTree) DeepFlush(id uint64) string {
	s.t.Helper()
	data, err := os.ReadFile(filepath.Join(s.regionDir(id), "deep_flush"))
	require.NoError(s.t, err)
	return string(data)
}

func (s *SysfsTree) regionDir(id uint64) string {
	return filepath.Join(s.Root, "sys/bus/nd/devices", fmt.Sprintf("region%d", id))
}

func (s *SysfsTree) addCharDevice(devID uint64, class string) string {
	dir := s.CharDevDir(devID)
	require.NoError(s.t, os.MkdirAll(filepath.Join(dir, "device/dax_region"), 0o755))
	require.NoError(s.t, os.Symlink(filepath.Join(s.Root, "sys/class", class), filepath.Join(dir, "subsystem")))
	return dir
}

func (s *SysfsTree) mkdir(rel string) {
	require.NoError(s.t, os.MkdirAll(filepath.Join(s.Root, rel), 0o755))
}

func (s *SysfsTree) write(path, content string) {
	require.NoError(s.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(s.t, os.WriteFile(path, []byte(content), 0o644))
}
