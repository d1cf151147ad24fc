//go:build amd64

package persist

import "golang.org/x/sys/cpu"

// Implemented in arch_amd64.s.
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)
func clflush(addr uintptr)
func clflushopt(addr uintptr)
func clwb(addr uintptr)
func sfence()

const (
	cpuidCLFLUSH    = 1 << 19 // leaf 1, EDX
	cpuidCLFLUSHOPT = 1 << 23 // leaf 7, EBX
	cpuidCLWB       = 1 << 24 // leaf 7, EBX
)

type x86Features struct {
	clflush    bool
	clflushopt bool
	clwb       bool
}

func probeX86() x86Features {
	var f x86Features
	maxLeaf, _, _, _ := cpuid(0, 0)
	_, _, _, edx1 := cpuid(1, 0)
	f.clflush = edx1&cpuidCLFLUSH != 0 && cpu.X86.HasSSE2
	if maxLeaf >= 7 {
		_, ebx7, _, _ := cpuid(7, 0)
		f.clflushopt = ebx7&cpuidCLFLUSHOPT != 0
		f.clwb = ebx7&cpuidCLWB != 0
	}
	return f
}

func detect(cfg DetectConfig) Arch {
	return selectX86(probeX86(), cfg)
}

func selectX86(f x86Features, cfg DetectConfig) Arch {
	switch {
	case f.clwb && !cfg.NoCLWB:
		return x86Arch{name: "clwb", line: clwb, fence: sfence}
	case f.clflushopt && !cfg.NoCLFlushOpt:
		return x86Arch{name: "clflushopt", line: clflushopt, fence: sfence}
	case f.clflush:
		// CLFLUSH is strongly ordered with other stores; no fence needed.
		return x86Arch{name: "clflush", line: clflush, fence: func() {}}
	}
	return Generic()
}

type x86Arch struct {
	name  string
	line  func(uintptr)
	fence func()
}

func (a x86Arch) Name() string { return a.name }

func (a x86Arch) Flush(addr, size uintptr) { forEachLine(addr, size, a.line) }

func (a x86Arch) Drain() { a.fence() }
