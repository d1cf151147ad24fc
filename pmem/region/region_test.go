package region

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeepFlushPath(t *testing.T) {
	require.Equal(t, "/sys/bus/nd/devices/region888/deep_flush", DeepFlushPath(888))
	require.Equal(t, "/sys/bus/nd/devices/region0/deep_flush", DeepFlushPath(0))
}

func TestFunc_Find(t *testing.T) {
	var got uint64
	r := Func(func(devID uint64) (ID, error) {
		got = devID
		return 888, nil
	})

	id, err := r.Find(777)
	require.NoError(t, err)
	require.Equal(t, ID(888), id)
	require.Equal(t, uint64(777), got)

	fail := Func(func(uint64) (ID, error) { return 0, ErrNotFound })
	_, err = fail.Find(1)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestNewSysfs_DefaultRoot(t *testing.T) {
	require.Equal(t, "/", NewSysfs("").Root())
	require.Equal(t, "/tmp/x", NewSysfs("/tmp/x").Root())
}

func TestSysfs_PersistenceDomain(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "sys/bus/nd/devices/region3")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "persistence_domain"), []byte("cpu_cache\n"), 0o644))

	s := NewSysfs(root)
	domain, err := s.PersistenceDomain(3)
	require.NoError(t, err)
	require.Equal(t, "cpu_cache", domain)

	_, err = s.PersistenceDomain(4)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
