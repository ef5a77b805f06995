package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics records per-phase timings and outcomes for message analyses.
type AnalysisMetrics struct {
	phaseDuration *prometheus.HistogramVec
	success       *prometheus.CounterVec
	failure       *prometheus.CounterVec
}

// NewAnalysisMetrics registers the analysis metrics on the provided registerer.
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	if reg == nil {
		return &AnalysisMetrics{}
	}
	phaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analysis_phase_duration_seconds",
		Help:    "Duration of each analysis phase in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_success",
		Help: "Completed message analyses.",
	}, []string{"provider"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_failure",
		Help: "Failed message analyses.",
	}, []string{"provider", "reason"})
	reg.MustRegister(phaseDuration, success, failure)
	return &AnalysisMetrics{
		phaseDuration: phaseDuration,
		success:       success,
		failure:       failure,
	}
}

// ObservePhase records the duration of the named phase.
func (m *AnalysisMetrics) ObservePhase(phase string, duration time.Duration) {
	if m == nil || m.phaseDuration == nil {
		return
	}
	m.phaseDuration.WithLabelValues(normalizeLabel(phase)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given provider.
func (m *AnalysisMetrics) IncSuccess(provider string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncFailure increments the failure counter for the given provider and reason.
func (m *AnalysisMetrics) IncFailure(provider, reason string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(provider), normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
