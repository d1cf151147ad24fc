//go:build linux

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func charDevDir(devID uint64) (string, error) {
	return fmt.Sprintf("/sys/dev/char/%d:%d", unix.Major(devID), unix.Minor(devID)), nil
}
