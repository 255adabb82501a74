// Package metrics reads the daemon's own runtime resource usage, exposed as
// self-monitoring gauges alongside the host statistics the daemon serves.
package metrics

import "runtime"

// SelfUsage holds a point-in-time reading of the daemon's own memory use.
type SelfUsage struct {
	HeapAlloc   uint64 // bytes in use by the daemon
	Sys         uint64 // total bytes obtained from the OS
	NumGC       uint32 // completed GC cycles
	HeapObjects uint64 // live heap objects
}

// SelfCollector reads runtime memory statistics for the daemon process.
type SelfCollector struct{}

// NewSelfCollector creates a new self-usage collector.
func NewSelfCollector() *SelfCollector {
	return &SelfCollector{}
}

// Snapshot reads the current self-usage figures.
func (c *SelfCollector) Snapshot() SelfUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SelfUsage{
		HeapAlloc:   m.HeapAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
	}
}
