package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hopsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "orchestrator",
		Name:      "hops_total",
		Help:      "Count of hops by acting role and outcome kind.",
	}, []string{"role", "outcome"})
	hopDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "supplychain",
		Subsystem: "orchestrator",
		Name:      "hop_duration_seconds",
		Help:      "End-to-end duration of hops, including confirmation waits.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"role", "outcome"})
	prerequisiteWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "orchestrator",
		Name:      "prerequisite_writes_total",
		Help:      "Count of custody assignments issued on behalf of a hop.",
	}, []string{"role", "status"})
	hopWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "orchestrator",
		Name:      "warnings_total",
		Help:      "Count of soft failures attached to hop results.",
	}, []string{"kind"})
)

// Orchestrator tracks hop outcomes.
type Orchestrator struct{}

// NewOrchestrator constructs a metrics collector for the transaction orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// ObserveHop records one hop; outcome is "success" or the error kind.
func (m *Orchestrator) ObserveHop(role, outcome string, started time.Time) {
	if m == nil {
		return
	}
	hopsTotal.WithLabelValues(role, outcome).Inc()
	hopDuration.WithLabelValues(role, outcome).Observe(time.Since(started).Seconds())
}

// ObservePrerequisite records one prerequisite custody assignment.
func (m *Orchestrator) ObservePrerequisite(role string, err error) {
	if m == nil {
		return
	}
	prerequisiteWritesTotal.WithLabelValues(role, statusOf(err)).Inc()
}

// ObserveWarning records a soft failure attached to a hop result.
func (m *Orchestrator) ObserveWarning(kind string) {
	if m == nil {
		return
	}
	hopWarningsTotal.WithLabelValues(kind).Inc()
}
