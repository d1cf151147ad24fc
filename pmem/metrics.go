package pmem

import "time"

// SyncMetrics receives one observation per deep sync call. A nil SyncMetrics
// disables collection.
type SyncMetrics interface {
	ObserveDeepSync(g Granularity, t FileType, code Code, size uintptr, d time.Duration)
}
