package stats

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/hostmon/internal/errors"
	"github.com/agbru/hostmon/internal/procfs"
)

// CounterSource is the raw counter contract the collector consumes. The
// procfs.Sampler is the production implementation; tests substitute fakes.
type CounterSource interface {
	SampleAllCores() (procfs.CPUSample, []procfs.CPUSample, error)
	ReadMemory() (procfs.Memory, error)
	Hostname() (string, error)
	Uptime() time.Duration
	LoadAvg() float64
}

// Collector runs the collection pipeline: raw counters in, one assembled
// Snapshot out. A failed stage aborts the cycle; no partial snapshot is
// ever returned.
type Collector struct {
	source CounterSource
	engine *Engine
	tracer trace.Tracer
}

// NewCollector creates a Collector over the given counter source with a
// fresh, unprimed delta engine.
func NewCollector(source CounterSource) *Collector {
	return &Collector{
		source: source,
		engine: NewEngine(),
		tracer: otel.Tracer("github.com/agbru/hostmon/internal/stats"),
	}
}

// Collect performs one full collection cycle. It honors context
// cancellation between stages; a canceled collection leaves the engine's
// previous-sample state and any cached snapshot untouched by the caller.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	ctx, span := c.tracer.Start(ctx, "stats.Collect")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	hostname, err := c.source.Hostname()
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, apperrors.CollectionError{Stage: "hostname", Cause: err}
	}

	overall, perCore, err := c.source.SampleAllCores()
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, apperrors.CollectionError{Stage: "cpu", Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	mem, err := c.source.ReadMemory()
	if err != nil {
		span.RecordError(err)
		return Snapshot{}, apperrors.CollectionError{Stage: "memory", Cause: err}
	}

	// The engine is advanced only after every fallible read succeeded, so a
	// failed cycle cannot skew the next cycle's deltas.
	breakdown := c.engine.Compute(overall, perCore)
	span.SetAttributes(attribute.Int("cores", breakdown.CoreCount))

	used := satSub(mem.Total, mem.Available)

	return Snapshot{
		Hostname:        hostname,
		CPUUsage:        breakdown.Overall.TotalPercent / 100,
		CPU:             breakdown,
		MemoryTotal:     mem.Total,
		MemoryUsed:      used,
		MemoryAvailable: mem.Available,
		MemoryCached:    mem.Cached,
		MemoryFree:      mem.Free,
		Uptime:          c.source.Uptime(),
		Load1:           c.source.LoadAvg(),
		CapturedAt:      time.Now(),
	}, nil
}
