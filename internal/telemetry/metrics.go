package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerOperationsTotal counts ledger calls by operation and result
	// (ok, not_found, invalid, error).
	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Assignment ledger operations by operation and result.",
		},
		[]string{"operation", "result"},
	)

	// LedgerOperationDuration observes the wall time of each ledger transaction.
	LedgerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Duration of assignment ledger transactions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// AuditWriteFailuresTotal counts audit entries that were dropped.
	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Audit log entries that could not be written and were dropped.",
		},
	)
)

// ObserveLedger records one finished ledger operation.
func ObserveLedger(operation, result string, started time.Time) {
	LedgerOperationsTotal.WithLabelValues(operation, result).Inc()
	LedgerOperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
