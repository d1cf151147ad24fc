//go:build unix && !linux

package mmfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// MAP_SYNC is Linux-only, so trySync is ignored here.
func mapShared(f *os.File, length int, _ bool) (*View, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &View{Data: data}, nil
}
