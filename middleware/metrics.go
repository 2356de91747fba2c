package middleware

import (
	"reflect"
	"time"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/metrics"
)

// metricsRegistry wraps a ClassRegistry with metrics capabilities
type metricsRegistry struct {
	interfaces.ClassRegistry
	metrics metrics.RegistryMetrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(m metrics.RegistryMetrics) interfaces.RegistryMiddleware {
	return func(next interfaces.ClassRegistry) interfaces.ClassRegistry {
		return &metricsRegistry{
			ClassRegistry: next,
			metrics:       m,
		}
	}
}

// GetClass looks a class up with metrics
func (r *metricsRegistry) GetClass(name string) (reflect.Type, bool) {
	start := time.Now()
	t, ok := r.ClassRegistry.GetClass(name)
	r.metrics.RecordLookupLatency(time.Since(start))
	if ok {
		r.metrics.RecordHit()
	} else {
		r.metrics.RecordMiss()
	}
	return t, ok
}

// GetRequiredClass looks a class up with metrics
func (r *metricsRegistry) GetRequiredClass(name string) (reflect.Type, error) {
	start := time.Now()
	t, err := r.ClassRegistry.GetRequiredClass(name)
	r.metrics.RecordLookupLatency(time.Since(start))
	if err == nil {
		r.metrics.RecordHit()
	} else {
		r.metrics.RecordMiss()
	}
	return t, err
}

// RegisterClass registers a class with metrics
func (r *metricsRegistry) RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	start := time.Now()
	err := r.ClassRegistry.RegisterClass(t, opts...)
	r.metrics.RecordRegisterLatency(time.Since(start))
	r.metrics.RecordEntryCount(int64(r.ClassRegistry.Len()))
	return err
}

// RegisterClasses registers several classes with metrics
func (r *metricsRegistry) RegisterClasses(types []reflect.Type) error {
	start := time.Now()
	err := r.ClassRegistry.RegisterClasses(types)
	r.metrics.RecordRegisterLatency(time.Since(start))
	r.metrics.RecordEntryCount(int64(r.ClassRegistry.Len()))
	return err
}

// UnregisterClassByName removes a class with metrics
func (r *metricsRegistry) UnregisterClassByName(name string) error {
	err := r.ClassRegistry.UnregisterClassByName(name)
	r.metrics.RecordEntryCount(int64(r.ClassRegistry.Len()))
	return err
}

// Teardown clears the registry with metrics
func (r *metricsRegistry) Teardown() {
	r.ClassRegistry.Teardown()
	r.metrics.RecordEntryCount(0)
}
