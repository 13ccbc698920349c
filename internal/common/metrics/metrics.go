// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_messages_processed_total",
			Help: "Total number of user messages processed, by stage",
		},
		[]string{"stage"},
	)

	MessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_messages_failed_total",
			Help: "Total number of user messages that failed processing",
		},
		[]string{"stage", "error_code"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "interview_model_call_duration_seconds",
			Help: "Duration of assistant model calls in seconds",
		},
		[]string{"purpose"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "interview_sessions_active",
			Help: "Number of live interview sessions",
		},
	)

	InterviewsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interviews_completed_total",
			Help: "Total number of interviews completed",
		},
	)

	ToolExecutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_tool_executions_total",
			Help: "Total number of document tool executions, by tool and status",
		},
		[]string{"tool", "status"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_notifications_sent_total",
			Help: "Total number of report notifications sent, by channel and status",
		},
		[]string{"channel", "status"},
	)
)
