package sntp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
)

// Query results recorded by the queries counter.
const (
	resultSuccess  = "success"
	resultError    = "error"
	resultInvalid  = "invalid"
	resultRejected = "rejected"
)

type metrics struct {
	offset           prometheus.Gauge
	queries          *prometheus.CounterVec
	consecutiveFails prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		offset: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gtime",
			Subsystem: "sntp",
			Name:      "offset_seconds",
			Help:      "Correction currently applied to the host clock.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtime",
			Subsystem: "sntp",
			Name:      "queries_total",
			Help:      "NTP queries by result.",
		}, []string{"result"}),
		consecutiveFails: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gtime",
			Subsystem: "sntp",
			Name:      "consecutive_failures",
			Help:      "Query cycles failed in a row.",
		}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.offset, m.queries, m.consecutiveFails}
}

// RegisterMetrics registers the timestamper's collectors on reg.
func (t *Timestamper) RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range t.metrics.collectors() {
		if err := reg.Register(c); err != nil {
			return oops.Wrapf(err, "failed to register sntp metrics")
		}
	}
	return nil
}
