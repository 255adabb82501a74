package stats

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/hostmon/internal/procfs"
)

// genSample generates a CPU counter sample with a consistent Total.
func genSample() gopter.Gen {
	return gopter.CombineGens(
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
	).Map(func(vals []interface{}) procfs.CPUSample {
		s := procfs.CPUSample{
			User:   vals[0].(uint64),
			Nice:   vals[1].(uint64),
			System: vals[2].(uint64),
			Idle:   vals[3].(uint64),
			IOWait: vals[4].(uint64),
		}
		s.Total = s.User + s.Nice + s.System + s.Idle + s.IOWait
		return s
	})
}

func breakdownInRange(b UsageBreakdown) bool {
	for _, v := range []float64{b.UserPercent, b.NicePercent, b.SystemPercent, b.TotalPercent} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

// TestEngine_PercentsInRange_PropertyBased asserts that for any pair of
// counter samples, including regressed and degenerate ones, every reported
// percentage lies within [0, 100].
func TestEngine_PercentsInRange_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("all percentages within [0,100]", prop.ForAll(
		func(prev, cur procfs.CPUSample) bool {
			e := NewEngine()
			e.Compute(prev, []procfs.CPUSample{prev})
			out := e.Compute(cur, []procfs.CPUSample{cur})
			if !breakdownInRange(out.Overall) {
				return false
			}
			for _, b := range out.PerCore {
				if !breakdownInRange(b) {
					return false
				}
			}
			return true
		},
		genSample(),
		genSample(),
	))

	properties.TestingRun(t)
}

// TestEngine_Deterministic_PropertyBased asserts that identical sample
// sequences produce bit-identical breakdowns across engine instances.
func TestEngine_Deterministic_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("identical inputs give identical outputs", prop.ForAll(
		func(prev, cur procfs.CPUSample) bool {
			a, b := NewEngine(), NewEngine()
			a.Compute(prev, nil)
			b.Compute(prev, nil)
			return a.Compute(cur, nil).Overall == b.Compute(cur, nil).Overall
		},
		genSample(),
		genSample(),
	))

	properties.TestingRun(t)
}

// TestEngine_FirstCallZero_PropertyBased asserts the priming rule holds for
// arbitrary first samples.
func TestEngine_FirstCallZero_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("first Compute always reports zero usage", prop.ForAll(
		func(first procfs.CPUSample) bool {
			e := NewEngine()
			out := e.Compute(first, []procfs.CPUSample{first, first})
			if out.Overall != (UsageBreakdown{}) {
				return false
			}
			for _, b := range out.PerCore {
				if b != (UsageBreakdown{}) {
					return false
				}
			}
			return out.CoreCount == 2
		},
		genSample(),
	))

	properties.TestingRun(t)
}
