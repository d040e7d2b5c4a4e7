package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sybilguard/internal/identity/models"
)

// Analysis outcomes.
const (
	OutcomeScored   = "scored"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeOverride = "manual_override"
)

// Verification results.
const (
	ResultPassed  = "passed"
	ResultFailed  = "failed"
	ResultSuspect = "suspect"
	ResultNoData  = "no_data"
)

// Metrics provides observability for the identity engine.
type Metrics struct {
	// Analyses by outcome
	Analyses *prometheus.CounterVec

	// Activity provider round trips
	ProviderLatency prometheus.Histogram

	// Verification decisions by result
	Verifications *prometheus.CounterVec

	ClusterSweeps    prometheus.Counter
	ClustersDetected prometheus.Counter
	SweepDuration    prometheus.Histogram

	// Snapshot gauges refreshed after each scheduler tick
	IdentitiesByStrength *prometheus.GaugeVec
	AverageScore         prometheus.Gauge
	QueueDepth           prometheus.Gauge
	SuspectedIdentities  prometheus.Gauge
	VerifiedIdentities   prometheus.Gauge
}

// New registers the identity metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the identity metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sybilguard_identity_analyses_total",
			Help: "Identity analyses by outcome",
		}, []string{"outcome"}),

		ProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sybilguard_activity_provider_duration_seconds",
			Help:    "Duration of activity provider calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sybilguard_identity_verifications_total",
			Help: "Identity verification decisions by result",
		}, []string{"result"}),

		ClusterSweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "sybilguard_cluster_sweeps_total",
			Help: "Completed sybil cluster detection sweeps",
		}),

		ClustersDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "sybilguard_clusters_detected_total",
			Help: "Sybil clusters reported across all sweeps",
		}),

		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sybilguard_cluster_sweep_duration_seconds",
			Help:    "Duration of a cluster detection sweep",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		IdentitiesByStrength: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sybilguard_identities",
			Help: "Scored identities by strength tier",
		}, []string{"strength"}),

		AverageScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sybilguard_identity_average_score",
			Help: "Mean humanity score across scored identities",
		}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sybilguard_analysis_queue_depth",
			Help: "Identities waiting for background analysis",
		}),

		SuspectedIdentities: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sybilguard_suspected_identities",
			Help: "Identities currently suspected of being sybils",
		}),

		VerifiedIdentities: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sybilguard_verified_identities",
			Help: "Identities currently verified as human",
		}),
	}
}

func (m *Metrics) IncrementAnalysis(outcome string) {
	if m != nil {
		m.Analyses.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveProviderLatency(d time.Duration) {
	if m != nil {
		m.ProviderLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementVerification(result string) {
	if m != nil {
		m.Verifications.WithLabelValues(result).Inc()
	}
}

// ObserveSweep records one cluster sweep and how many clusters it found.
func (m *Metrics) ObserveSweep(d time.Duration, clusters int) {
	if m != nil {
		m.ClusterSweeps.Inc()
		m.ClustersDetected.Add(float64(clusters))
		m.SweepDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

// SetStats publishes a stats snapshot. Every tier is written so tiers that
// emptied drop back to zero.
func (m *Metrics) SetStats(stats models.Stats) {
	if m == nil {
		return
	}
	for _, strength := range models.AllStrengths {
		m.IdentitiesByStrength.WithLabelValues(strength.String()).Set(float64(stats.ByStrength[strength]))
	}
	m.AverageScore.Set(stats.AverageScore)
	m.QueueDepth.Set(float64(stats.PendingAnalyses))
	m.SuspectedIdentities.Set(float64(stats.SuspectedCount))
	m.VerifiedIdentities.Set(float64(stats.VerifiedCount))
}
