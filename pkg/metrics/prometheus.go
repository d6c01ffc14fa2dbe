package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

// NotificationDecisionsTotal 偏好判定结果，result 为 allowed 或拒绝原因
var NotificationDecisionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_decisions_total",
		Help: "Total number of notification preference decisions",
	},
	[]string{"type", "result"},
)

var ReminderAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reminder_attempts_total",
		Help: "Total number of reminder delivery attempts",
	},
	[]string{"result"},
)

var ReminderExhaustedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "reminder_exhausted_total",
		Help: "Total number of reminders that used up every delivery attempt",
	},
)

var PauseTransitionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_pause_transitions_total",
		Help: "Pause lifecycle transitions (pause, replace, resume, expire)",
	},
	[]string{"transition"},
)

var KafkaPublishFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_failure_total",
		Help: "Total number of failed Kafka publishes",
	},
	[]string{"topic"},
)

var registerOnce sync.Once

// Init 注册全部指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestDuration,
			NotificationDecisionsTotal,
			ReminderAttemptsTotal,
			ReminderExhaustedTotal,
			PauseTransitionsTotal,
			KafkaPublishFailureTotal,
		)
	})
}
