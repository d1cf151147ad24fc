//go:build !unix && !windows

package osflush

func flushRange(_ []byte, _, _ int) error {
	return ErrUnsupported
}
