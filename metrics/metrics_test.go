package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 0.0, m.GetMetrics().HitRatio)

	m.RecordHit()
	m.RecordHit()
	m.RecordHit()
	m.RecordMiss()
	m.RecordLookupLatency(3 * time.Millisecond)
	m.RecordRegisterLatency(time.Millisecond)
	m.RecordEntryCount(7)

	snap := m.GetMetrics()
	assert.Equal(t, int64(3), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, 0.75, snap.HitRatio)
	assert.Equal(t, 3*time.Millisecond, snap.LookupLatency)
	assert.Equal(t, time.Millisecond, snap.RegisterLatency)
	assert.Equal(t, int64(7), snap.EntryCount)
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordHit()
				m.RecordMiss()
			}
		}()
	}
	wg.Wait()

	snap := m.GetMetrics()
	assert.Equal(t, int64(1000), snap.Hits)
	assert.Equal(t, int64(1000), snap.Misses)
	assert.Equal(t, 0.5, snap.HitRatio)
}
