package infrastructure

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MemorySnapshot is a point-in-time reading of the Go heap
type MemorySnapshot struct {
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	NumGC          uint32 `json:"num_gc"`
}

// ReadMemory samples runtime memory statistics.
func ReadMemory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAllocBytes: m.HeapAlloc,
		SysBytes:       m.Sys,
		NumGC:          m.NumGC,
	}
}

// SystemMetrics records process memory while the record set is held in memory
type SystemMetrics struct {
	heapAlloc metric.Int64Gauge
	sys       metric.Int64Gauge
}

// NewSystemMetrics creates the memory gauges on meter
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	heapAlloc, err := meter.Int64Gauge(
		"pipeline_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated after a stage"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	sys, err := meter.Int64Gauge(
		"pipeline_memory_sys_bytes",
		metric.WithDescription("Bytes of memory obtained from the OS"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &SystemMetrics{heapAlloc: heapAlloc, sys: sys}, nil
}

// Record samples memory and records it against stage
func (s *SystemMetrics) Record(ctx context.Context, stage string) MemorySnapshot {
	snap := ReadMemory()
	if s == nil {
		return snap
	}
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	s.heapAlloc.Record(ctx, int64(snap.HeapAllocBytes), attrs)
	s.sys.Record(ctx, int64(snap.SysBytes), attrs)
	return snap
}
