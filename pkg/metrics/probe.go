package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProbeMetrics records outcomes of gateway discovery probes.
type ProbeMetrics struct {
	duration *prometheus.HistogramVec
	outcome  *prometheus.CounterVec
}

// NewProbeMetrics registers the probe metrics on the provided registerer.
func NewProbeMetrics(reg prometheus.Registerer) *ProbeMetrics {
	if reg == nil {
		return &ProbeMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_probe_duration_seconds",
		Help:    "Duration of per-country gateway probes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	outcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_probe_total",
		Help: "Gateway probes by provider and outcome.",
	}, []string{"provider", "outcome"})
	reg.MustRegister(duration, outcome)
	return &ProbeMetrics{
		duration: duration,
		outcome:  outcome,
	}
}

// ObserveProbe records one probe's duration and outcome for the provider.
func (p *ProbeMetrics) ObserveProbe(provider string, duration time.Duration, ok bool) {
	if p == nil || p.duration == nil {
		return
	}
	label := normalizeLabel(provider)
	p.duration.WithLabelValues(label).Observe(duration.Seconds())
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	p.outcome.WithLabelValues(label, outcome).Inc()
}
