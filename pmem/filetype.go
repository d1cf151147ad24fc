package pmem

import "fmt"

// FileType classifies the store backing a mapping.
type FileType int

const (
	FileTypeUnsupported FileType = iota
	FileTypeRegular
	FileTypeDeviceDax
)

func (t FileType) String() string {
	switch t {
	case FileTypeUnsupported:
		return "unsupported"
	case FileTypeRegular:
		return "regular"
	case FileTypeDeviceDax:
		return "device-dax"
	default:
		return fmt.Sprintf("FileType(%d)", int(t))
	}
}
