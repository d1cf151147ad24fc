// Package persist provides the CPU side of persistence: writing cache lines
// back toward the memory controller (flush) and ordering those write-backs
// (drain).
//
// The instruction sequence depends on the processor, so it is modelled as an
// Arch strategy chosen once per process and injected wherever it is needed.
package persist

import (
	"os"
	"sync"
)

// CacheLineSize is the stride used when walking a range line by line.
const CacheLineSize = 64

// Arch is an architecture-specific flush/drain strategy.
//
// Flush writes back, without invalidating, every cache line that covers
// [addr, addr+size). Drain returns once all flushes previously issued by the
// calling thread are globally visible.
type Arch interface {
	Name() string
	Flush(addr, size uintptr)
	Drain()
}

// DetectConfig turns off instructions that Detect would otherwise select.
type DetectConfig struct {
	NoCLWB       bool `mapstructure:"no_clwb" yaml:"no_clwb"`
	NoCLFlushOpt bool `mapstructure:"no_clflushopt" yaml:"no_clflushopt"`
}

// ConfigFromEnv reads PMEM_NO_CLWB and PMEM_NO_CLFLUSHOPT. A value of "1"
// disables the instruction.
func ConfigFromEnv() DetectConfig {
	return DetectConfig{
		NoCLWB:       os.Getenv("PMEM_NO_CLWB") == "1",
		NoCLFlushOpt: os.Getenv("PMEM_NO_CLFLUSHOPT") == "1",
	}
}

// Detect probes the running processor and returns the best available strategy.
func Detect(cfg DetectConfig) Arch {
	return detect(cfg)
}

// Unit is the CPU cache persist unit. It is immutable once built and safe for
// concurrent use.
type Unit struct {
	arch Arch
}

// New wraps a. A nil Arch selects the generic strategy.
func New(a Arch) *Unit {
	if a == nil {
		a = Generic()
	}
	return &Unit{arch: a}
}

var (
	defaultOnce sync.Once
	defaultUnit *Unit
)

// Default returns the process-wide unit, detected on first use from the
// environment switches.
func Default() *Unit {
	defaultOnce.Do(func() {
		defaultUnit = New(Detect(ConfigFromEnv()))
	})
	return defaultUnit
}

// Name reports the selected strategy, e.g. "clwb".
func (u *Unit) Name() string { return u.arch.Name() }

// Flush writes back the cache lines covering [addr, addr+size).
func (u *Unit) Flush(addr, size uintptr) { u.arch.Flush(addr, size) }

// Drain waits for previously issued flushes to complete.
func (u *Unit) Drain() { u.arch.Drain() }

// Persist flushes the range and then drains.
func (u *Unit) Persist(addr, size uintptr) {
	u.arch.Flush(addr, size)
	u.arch.Drain()
}

// forEachLine calls fn with the address of every cache line overlapping
// [addr, addr+size).
func forEachLine(addr, size uintptr, fn func(uintptr)) {
	end := addr + size
	for p := addr &^ (CacheLineSize - 1); p < end; p += CacheLineSize {
		fn(p)
	}
}
