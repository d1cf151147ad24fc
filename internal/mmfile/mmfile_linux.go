//go:build linux

package mmfile

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func mapShared(f *os.File, length int, trySync bool) (*View, error) {
	fd := int(f.Fd())
	prot := unix.PROT_READ | unix.PROT_WRITE

	if trySync {
		data, err := unix.Mmap(fd, 0, length, prot, unix.MAP_SHARED_VALIDATE|unix.MAP_SYNC)
		if err == nil {
			return &View{Data: data, Sync: true}, nil
		}
		// EOPNOTSUPP: file system without DAX. EINVAL: kernel predates MAP_SYNC.
		if !errors.Is(err, unix.EOPNOTSUPP) && !errors.Is(err, unix.EINVAL) {
			return nil, err
		}
	}

	data, err := unix.Mmap(fd, 0, length, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &View{Data: data}, nil
}
