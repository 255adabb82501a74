// Package stats turns raw host counters into immutable usage snapshots.
// It owns the delta-based CPU percentage computation and the collection
// pipeline that assembles a full Snapshot per cycle.
package stats

import "time"

// UsageBreakdown is the share of elapsed CPU time attributable to each time
// bucket between two counter samples. All percentages lie in [0, 100].
type UsageBreakdown struct {
	UserPercent   float64
	NicePercent   float64
	SystemPercent float64
	TotalPercent  float64
}

// CPUStats is the full CPU usage picture for one collection cycle.
type CPUStats struct {
	Overall   UsageBreakdown
	PerCore   []UsageBreakdown
	CoreCount int
}

// Snapshot is one immutable, fully-assembled set of host statistics captured
// at a point in time. Snapshots are never mutated after assembly; consumers
// that need an independent copy use Clone.
type Snapshot struct {
	Hostname string

	// CPUUsage is the aggregate usage fraction in [0, 1], kept alongside
	// the richer CPU breakdown for consumers that only need one number.
	CPUUsage float64
	CPU      CPUStats

	// Memory figures in bytes. MemoryUsed = MemoryTotal - MemoryAvailable,
	// saturating at zero.
	MemoryTotal     uint64
	MemoryUsed      uint64
	MemoryAvailable uint64
	MemoryCached    uint64
	MemoryFree      uint64

	// Uptime and Load1 are decorative page figures; zero when the host
	// cannot provide them.
	Uptime time.Duration
	Load1  float64

	CapturedAt time.Time
}

// Clone returns a deep copy of the snapshot, decoupled from any backing
// storage the original shares.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.CPU.PerCore != nil {
		out.CPU.PerCore = make([]UsageBreakdown, len(s.CPU.PerCore))
		copy(out.CPU.PerCore, s.CPU.PerCore)
	}
	return out
}
