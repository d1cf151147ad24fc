package persist

import "sync/atomic"

var fenceWord atomic.Uint32

type generic struct{}

// Generic returns the fallback strategy for processors without a known
// user-space write-back instruction. Flush does nothing and Drain is a full
// memory barrier; durability then rests on the OS or device flush path.
func Generic() Arch { return generic{} }

func (generic) Name() string { return "generic" }

func (generic) Flush(_, _ uintptr) {}

func (generic) Drain() { fenceWord.Add(1) }
