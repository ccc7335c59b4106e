// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Kernel metrics registry. Counters are published by the control adapter
// and read as snapshots.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds the latest published metric values.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// SetAll publishes a batch of metrics under one timestamp.
func (mr *MetricsRegistry) SetAll(values map[string]any) {
	mr.mu.Lock()
	for k, v := range values {
		mr.metrics[k] = v
	}
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Updated returns the time of the last publish.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}
