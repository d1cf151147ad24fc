//go:build !unix

package pmem

import (
	"os"

	"github.com/joshuapare/pmemkit/pmem/region"
)

// DetectFileType classifies the file behind f. Without device DAX support
// only regular files are recognized.
func DetectFileType(f *os.File, _ *region.Sysfs) (FileType, uint64, error) {
	st, err := f.Stat()
	if err != nil {
		return FileTypeUnsupported, 0, err
	}
	if st.Mode().IsRegular() {
		return FileTypeRegular, 0, nil
	}
	return FileTypeUnsupported, 0, nil
}
