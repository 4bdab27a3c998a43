package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvcache/internal/cache"
)

func TestMetrics_CountsEvents(t *testing.T) {
	// GIVEN
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	// WHEN
	for _, evt := range []cache.Event{
		{Type: cache.EventInit},
		{Type: cache.EventHit, Key: "a"},
		{Type: cache.EventHit, Key: "b"},
		{Type: cache.EventMiss, Key: "c"},
		{Type: cache.EventPut, Key: "a"},
		{Type: cache.EventDelete, Key: "a"},
		{Type: cache.EventSweep, Count: 3},
		{Type: cache.EventSweep, Count: 2},
		{Type: cache.EventSweepFailed},
	} {
		m.Observe(evt)
	}

	// THEN
	assert.InDelta(t, 2, testutil.ToFloat64(m.hits), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.misses), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.puts), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.deletes), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(m.swept), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sweepFailures), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}
