package stats

import (
	"sync"

	"github.com/agbru/hostmon/internal/procfs"
)

// Engine converts successive raw CPU counter samples into percentage
// breakdowns. It holds the previous sample for the aggregate and for each
// core index, so one Engine instance must be fed by a single logical
// collection stream. The first call primes the engine and reports zero
// usage; no rate can be derived without a delta.
//
// The previous-sample state is guarded by a mutex. This sits on the
// collection (write) path only; snapshot readers never touch the engine.
type Engine struct {
	mu          sync.Mutex
	primed      bool
	prevOverall procfs.CPUSample
	prevCores   []procfs.CPUSample
}

// NewEngine creates an unprimed Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// satSub subtracts b from a, saturating at zero. Counters are monotonic;
// a decrease (counter wrap, reboot) reads as no elapsed time.
func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// clampPercent bounds a percentage to [0, 100].
func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// breakdownBetween derives the usage breakdown for the interval between two
// samples of the same CPU. A zero total delta yields a zero breakdown.
func breakdownBetween(prev, cur procfs.CPUSample) UsageBreakdown {
	totalDiff := satSub(cur.Total, prev.Total)
	if totalDiff == 0 {
		return UsageBreakdown{}
	}
	busyDiff := satSub(totalDiff, satSub(cur.Idle, prev.Idle))
	scale := 100 / float64(totalDiff)
	return UsageBreakdown{
		UserPercent:   clampPercent(float64(satSub(cur.User, prev.User)) * scale),
		NicePercent:   clampPercent(float64(satSub(cur.Nice, prev.Nice)) * scale),
		SystemPercent: clampPercent(float64(satSub(cur.System, prev.System)) * scale),
		TotalPercent:  clampPercent(float64(busyDiff) * scale),
	}
}

// Compute produces the CPU usage breakdown for the interval since the
// previous call and stores the current samples as the new reference point.
//
// Per-core results align by array index. When the core count grows between
// cycles (hot-plug), cores beyond the previous length report zero for this
// cycle; the stored state is resized either way.
func (e *Engine) Compute(overall procfs.CPUSample, perCore []procfs.CPUSample) CPUStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := CPUStats{
		PerCore:   make([]UsageBreakdown, len(perCore)),
		CoreCount: len(perCore),
	}

	if e.primed {
		out.Overall = breakdownBetween(e.prevOverall, overall)
		for i, cur := range perCore {
			if i < len(e.prevCores) {
				out.PerCore[i] = breakdownBetween(e.prevCores[i], cur)
			}
		}
	}

	e.primed = true
	e.prevOverall = overall
	e.prevCores = make([]procfs.CPUSample, len(perCore))
	copy(e.prevCores, perCore)

	return out
}
