//go:build arm64

package persist

import "golang.org/x/sys/cpu"

// Implemented in arch_arm64.s.
func dcCVAP(addr uintptr)
func dcCVAC(addr uintptr)
func dmbISH()

// The x86 switches in DetectConfig have no arm64 counterpart.
func detect(_ DetectConfig) Arch {
	if cpu.ARM64.HasDCPOP {
		return arm64Arch{name: "dc-cvap", line: dcCVAP}
	}
	return arm64Arch{name: "dc-cvac", line: dcCVAC}
}

type arm64Arch struct {
	name string
	line func(uintptr)
}

func (a arm64Arch) Name() string { return a.name }

func (a arm64Arch) Flush(addr, size uintptr) { forEachLine(addr, size, a.line) }

func (a arm64Arch) Drain() { dmbISH() }
