package pmem

import (
	"fmt"
	"strings"
)

// Granularity is the unit at which a mapping's medium guarantees flush
// behavior. Values are ordered from strongest to weakest.
type Granularity int

const (
	// GranularityByte: stores are durable once they leave the CPU caches (eADR).
	GranularityByte Granularity = iota
	// GranularityCacheLine: flushed cache lines are durable (ADR, MAP_SYNC, device DAX).
	GranularityCacheLine
	// GranularityPage: durability requires the OS to write back whole pages.
	GranularityPage
)

func (g Granularity) String() string {
	switch g {
	case GranularityByte:
		return "byte"
	case GranularityCacheLine:
		return "cache-line"
	case GranularityPage:
		return "page"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity parses "byte", "cache-line" (or "cacheline", "cache_line") and "page".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "byte":
		return GranularityByte, nil
	case "cache-line", "cacheline", "cache_line":
		return GranularityCacheLine, nil
	case "page":
		return GranularityPage, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, s)
}
