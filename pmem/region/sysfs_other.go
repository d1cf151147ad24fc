//go:build !linux

package region

import "errors"

var errNoSysfs = errors.New("region: device DAX regions are only exposed through Linux sysfs")

func charDevDir(uint64) (string, error) {
	return "", errNoSysfs
}
