package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReminderScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reminder_scan_duration_seconds",
			Help:    "Deadline reminder scan duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
	)

	ReminderScanCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_scan_count",
			Help: "Total number of deadline reminder scans",
		},
		[]string{"outcome"}, // outcome: ok, failed, skipped, disabled
	)

	ReminderSentCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_sent_count",
			Help: "Total number of deadline reminder emails dispatched",
		},
		[]string{"milestone"}, // milestone: three_days_before, deadline_day
	)

	ReminderProjectFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_project_failure_count",
			Help: "Per-project failures during a reminder scan",
		},
		[]string{"stage"}, // stage: persist_marker
	)

	LedgerSyncFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_sync_failure_count",
			Help: "Best-effort ledger synchronization failures",
		},
		[]string{"operation"}, // operation: create_income, create_expense, cascade
	)

	ProjectStatusTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_status_transition_count",
			Help: "Total number of applied project status transitions",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveScanDuration records the duration of one reminder scan.
func ObserveScanDuration(d time.Duration) {
	ReminderScanDuration.Observe(d.Seconds())
}
