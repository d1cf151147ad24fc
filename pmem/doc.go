// Package pmem enforces deep durability on persistent-memory mappings.
//
// An ordinary persist (cache flush plus fence) survives a process crash. A deep
// sync additionally pushes data through the platform's write buffers so it
// survives power loss. How that is done depends on the mapping:
//
//   - Page granularity: the medium is already durable at page granularity and
//     nothing is done.
//   - Cache-line granularity: the backing store is flushed (see below).
//   - Byte granularity: CPU caches covering the range are written back and
//     drained first, then the backing store is flushed.
//
// Flushing the backing store depends on its type. Regular files are msync'ed
// over the pages covering the range. Device DAX character devices trigger a
// hardware flush of their NVDIMM region by writing '1' to
// /sys/bus/nd/devices/region<N>/deep_flush.
//
// # Usage
//
//	m, err := pmem.Open("/dev/dax0.0")
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	copy(m.Bytes()[off:], record)
//	if err := m.DeepSync(off, len(record)); err != nil {
//	    // errors.Is(err, pmem.ErrIO) etc.
//	}
//
// Code that manages its own mappings implements the Mapping interface and
// calls Syncer.DeepSync directly.
//
// # Thread Safety
//
// A Syncer is immutable after construction. Concurrent deep syncs on the same
// or overlapping ranges are safe; every action is an idempotent flush or
// control write.
package pmem
