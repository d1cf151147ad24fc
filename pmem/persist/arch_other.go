//go:build !amd64 && !arm64

package persist

func detect(_ DetectConfig) Arch {
	return Generic()
}
