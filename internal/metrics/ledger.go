package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplychain",
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Count of ledger gateway operations.",
	}, []string{"operation", "chain", "status"})
	ledgerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "supplychain",
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger gateway operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "chain", "status"})
)

// Ledger tracks metrics for calls made through the ledger gateway.
type Ledger struct {
	chain string
}

// NewLedger constructs a metrics collector for the ledger gateway.
func NewLedger(chain string) *Ledger {
	if chain == "" {
		chain = "unknown"
	}
	return &Ledger{chain: chain}
}

// Observe records a single ledger operation outcome and duration.
func (m *Ledger) Observe(operation string, err error, started time.Time) {
	if m == nil {
		return
	}
	status := statusOf(err)
	ledgerOperationsTotal.WithLabelValues(operation, m.chain, status).Inc()
	ledgerOperationDuration.WithLabelValues(operation, m.chain, status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
