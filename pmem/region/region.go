// Package region resolves the NVDIMM region that owns a device-DAX character
// device and locates the region's deep_flush control file.
//
// Resolution is a narrow lookup (device number to region id) so that callers
// can substitute a fake without touching a real device tree.
package region

import (
	"errors"
	"fmt"
)

// ID identifies an NVDIMM region, as in /sys/bus/nd/devices/region<ID>.
type ID uint64

// ErrNotFound indicates no region owns the given device.
var ErrNotFound = errors.New("region: device region not found")

// DeepFlushPath returns the control file that triggers a deep flush of region id.
// Writing the ASCII byte '1' to it flushes the region's write-pending queues.
func DeepFlushPath(id ID) string {
	return fmt.Sprintf("/sys/bus/nd/devices/region%d/deep_flush", id)
}

// Resolver maps a character device number (st_rdev) to the owning region.
type Resolver interface {
	Find(devID uint64) (ID, error)
}

// Func adapts an ordinary function to the Resolver interface.
type Func func(devID uint64) (ID, error)

// Find calls f(devID).
func (f Func) Find(devID uint64) (ID, error) { return f(devID) }
