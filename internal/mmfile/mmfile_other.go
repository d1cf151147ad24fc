//go:build !unix

package mmfile

import "os"

func mapShared(_ *os.File, _ int, _ bool) (*View, error) {
	return nil, ErrUnsupported
}

// Unmap is a no-op where mappings cannot be created.
func (v *View) Unmap() error {
	return nil
}
