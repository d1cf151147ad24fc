//go:build unix

package pmem

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/pmemkit/pmem/region"
)

// DetectFileType classifies the file behind f and returns its device number.
//
// Regular files are FileTypeRegular. Character devices are FileTypeDeviceDax
// when sysfs places them in the "dax" subsystem. Everything else, including
// directories, is FileTypeUnsupported.
func DetectFileType(f *os.File, sysfs *region.Sysfs) (FileType, uint64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return FileTypeUnsupported, 0, &os.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}

	devID := uint64(st.Rdev)
	switch uint32(st.Mode) & unix.S_IFMT {
	case unix.S_IFREG:
		return FileTypeRegular, devID, nil
	case unix.S_IFCHR:
		ok, err := sysfs.IsDeviceDax(devID)
		if err != nil {
			return FileTypeUnsupported, devID, err
		}
		if ok {
			return FileTypeDeviceDax, devID, nil
		}
	}
	return FileTypeUnsupported, devID, nil
}
