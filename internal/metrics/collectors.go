package metrics

import "github.com/prometheus/client_golang/prometheus"

type collectors struct {
	passes       prometheus.Counter
	cacheHits    prometheus.Counter
	passDuration prometheus.Histogram
	records      prometheus.Gauge
	insights     *prometheus.CounterVec
}

func newCollectors(reg prometheus.Registerer) *collectors {
	c := &collectors{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "analytics",
			Name:      "passes_total",
			Help:      "Computation passes run over the record snapshot.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "analytics",
			Name:      "cache_hits_total",
			Help:      "Queries answered from the memoized result.",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "outreach",
			Subsystem: "analytics",
			Name:      "pass_duration_seconds",
			Help:      "Duration of one computation pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "outreach",
			Subsystem: "analytics",
			Name:      "snapshot_records",
			Help:      "Records in the snapshot used by the last pass.",
		}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "analytics",
			Name:      "insights_total",
			Help:      "Insights emitted, by priority.",
		}, []string{"priority"}),
	}
	if reg != nil {
		reg.MustRegister(c.passes, c.cacheHits, c.passDuration, c.records, c.insights)
	}
	return c
}
