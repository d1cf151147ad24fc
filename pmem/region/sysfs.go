package region

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxAttrSize bounds how much of a sysfs attribute is read.
const maxAttrSize = 32

// Sysfs resolves regions by reading the Linux sysfs tree mounted under Root.
//
// Root is "/" on a live system; tests point it at a fabricated tree.
type Sysfs struct {
	root string
}

// NewSysfs returns a resolver reading sysfs below root. An empty root means "/".
func NewSysfs(root string) *Sysfs {
	if root == "" {
		root = "/"
	}
	return &Sysfs{root: root}
}

// Root returns the directory sysfs paths are resolved against.
func (s *Sysfs) Root() string { return s.root }

func (s *Sysfs) path(p string) string {
	return filepath.Join(s.root, p)
}

// Find reads /sys/dev/char/<major>:<minor>/device/dax_region/id.
func (s *Sysfs) Find(devID uint64) (ID, error) {
	dir, err := charDevDir(devID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	p := s.path(dir + "/device/dax_region/id")

	raw, err := readAttr(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: invalid region id %q", ErrNotFound, p, raw)
	}
	return ID(id), nil
}

// IsDeviceDax reports whether the character device devID belongs to the
// "dax" subsystem.
func (s *Sysfs) IsDeviceDax(devID uint64) (bool, error) {
	dir, err := charDevDir(devID)
	if err != nil {
		return false, nil
	}
	target, err := filepath.EvalSymlinks(s.path(dir + "/subsystem"))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return filepath.Base(target) == "dax", nil
}

// DeviceSize reads /sys/dev/char/<major>:<minor>/size, the mappable size of
// a device DAX in bytes.
func (s *Sysfs) DeviceSize(devID uint64) (int64, error) {
	dir, err := charDevDir(devID)
	if err != nil {
		return 0, err
	}
	p := s.path(dir + "/size")
	raw, err := readAttr(p)
	if err != nil {
		return 0, err
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid size %q", p, raw)
	}
	return size, nil
}

// PersistenceDomain reads the region's persistence_domain attribute, e.g.
// "memory_controller" (ADR) or "cpu_cache" (eADR).
func (s *Sysfs) PersistenceDomain(id ID) (string, error) {
	return readAttr(s.path(fmt.Sprintf("/sys/bus/nd/devices/region%d/persistence_domain", id)))
}

// AutoFlush reports whether every NVDIMM region on the platform keeps CPU
// caches inside its persistence domain (eADR). Regions without a
// persistence_domain attribute are skipped. With no regions, or when the
// nd bus cannot be read, it reports false.
func (s *Sysfs) AutoFlush() bool {
	entries, err := os.ReadDir(s.path("/sys/bus/nd/devices"))
	if err != nil {
		return false
	}
	found := false
	for _, e := range entries {
		rest, ok := strings.CutPrefix(e.Name(), "region")
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			continue
		}
		domain, err := s.PersistenceDomain(ID(id))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil || domain != "cpu_cache" {
			return false
		}
		found = true
	}
	return found
}

// readAttr reads a short sysfs attribute and trims surrounding whitespace.
func readAttr(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, maxAttrSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(buf)), nil
}
