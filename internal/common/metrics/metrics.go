// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_actions_total",
			Help: "Dialog responses by intent and dialog action",
		},
		[]string{"intent", "action"},
	)

	DialogRequestsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_requests_enqueued_total",
			Help: "Fulfillment requests enqueued by the dialog hook",
		},
		[]string{"source"},
	)

	SuggestionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_outcomes_total",
			Help: "Fulfillment worker iterations by outcome",
		},
		[]string{"outcome"},
	)

	SuggestionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "suggestion_process_duration_seconds",
			Help: "Duration of one fulfillment worker iteration",
		},
		[]string{"outcome"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Suggestion notifications by channel and status",
		},
		[]string{"channel", "status"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)
