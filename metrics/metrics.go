// Package metrics collects class registry statistics.
package metrics

import (
	"sync"
	"time"
)

// RegistryMetrics defines the interface for class registry metrics
type RegistryMetrics interface {
	RecordHit()
	RecordMiss()
	RecordLookupLatency(duration time.Duration)
	RecordRegisterLatency(duration time.Duration)
	RecordEntryCount(count int64)
	GetMetrics() *RegistryMetricsSnapshot
}

// RegistryMetricsSnapshot represents a snapshot of class registry metrics
type RegistryMetricsSnapshot struct {
	Hits            int64
	Misses          int64
	HitRatio        float64
	LookupLatency   time.Duration
	RegisterLatency time.Duration
	EntryCount      int64
}

// defaultMetrics implements the RegistryMetrics interface
type defaultMetrics struct {
	hits            int64
	misses          int64
	lookupLatency   time.Duration
	registerLatency time.Duration
	entryCount      int64
	mu              sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() RegistryMetrics {
	return &defaultMetrics{}
}

// RecordHit records a registry hit
func (m *defaultMetrics) RecordHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
}

// RecordMiss records a registry miss
func (m *defaultMetrics) RecordMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}

// RecordLookupLatency records the latency of the last lookup
func (m *defaultMetrics) RecordLookupLatency(duration time.Duration) {
	m.mu.Lock()
	m.lookupLatency = duration
	m.mu.Unlock()
}

// RecordRegisterLatency records the latency of the last registration
func (m *defaultMetrics) RecordRegisterLatency(duration time.Duration) {
	m.mu.Lock()
	m.registerLatency = duration
	m.mu.Unlock()
}

// RecordEntryCount records the current number of registered classes
func (m *defaultMetrics) RecordEntryCount(count int64) {
	m.mu.Lock()
	m.entryCount = count
	m.mu.Unlock()
}

// GetMetrics returns the current metrics snapshot
func (m *defaultMetrics) GetMetrics() *RegistryMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.hits + m.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.hits) / float64(total)
	}

	return &RegistryMetricsSnapshot{
		Hits:            m.hits,
		Misses:          m.misses,
		HitRatio:        hitRatio,
		LookupLatency:   m.lookupLatency,
		RegisterLatency: m.registerLatency,
		EntryCount:      m.entryCount,
	}
}
