package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"kvcache/internal/cache"
)

const namespace = "kvcache"

// Metrics counts cache events. It is registered as a cache.Observer.
type Metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	puts          prometheus.Counter
	deletes       prometheus.Counter
	swept         prometheus.Counter
	sweepFailures prometheus.Counter
}

var _ cache.Observer = (*Metrics)(nil)

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		hits:          counter("hits_total", "Number of lookups returning a live entry."),
		misses:        counter("misses_total", "Number of lookups finding no live entry."),
		puts:          counter("puts_total", "Number of stored entries."),
		deletes:       counter("deletes_total", "Number of explicit deletions."),
		swept:         counter("swept_entries_total", "Number of expired entries removed by sweeps."),
		sweepFailures: counter("sweep_failures_total", "Number of failed sweeps."),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.puts, m.deletes, m.swept, m.sweepFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) Observe(evt cache.Event) {
	switch evt.Type {
	case cache.EventHit:
		m.hits.Inc()
	case cache.EventMiss:
		m.misses.Inc()
	case cache.EventPut:
		m.puts.Inc()
	case cache.EventDelete:
		m.deletes.Inc()
	case cache.EventSweep:
		m.swept.Add(float64(evt.Count))
	case cache.EventSweepFailed:
		m.sweepFailures.Inc()
	case cache.EventInit:
	}
}
