package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook delivery latency per logical endpoint (ms), covering the
	// whole retry loop of one delivery.
	WebhookDeliveryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_delivery_latency_ms",
			Help:    "Webhook delivery latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 11), // 10ms to ~10s
		},
		[]string{"target", "outcome"}, // outcome: success, failed, skipped
	)

	// Physical webhook attempts.
	WebhookAttemptCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_attempt_count",
			Help: "Total number of physical webhook attempts",
		},
		[]string{"target", "outcome"}, // outcome: success, error, timeout
	)

	// Deliveries dropped because the dispatch queue was full.
	WebhookQueueDropCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_queue_drop_count",
			Help: "Total number of deliveries dropped due to a full queue",
		},
	)

	// Current dispatch queue depth.
	WebhookQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webhook_queue_depth",
			Help: "Current number of deliveries waiting in the dispatch queue",
		},
	)

	// Domain events emitted to the parent app.
	NotificationEventCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_event_count",
			Help: "Total number of notification events emitted",
		},
		[]string{"event_type"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
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

// RecordWebhookDelivery records the latency of one logical delivery.
func RecordWebhookDelivery(target, outcome string, duration time.Duration) {
	WebhookDeliveryLatency.WithLabelValues(target, outcome).Observe(float64(duration.Milliseconds()))
}

// IncrementWebhookAttempt counts one physical attempt.
func IncrementWebhookAttempt(target, outcome string) {
	WebhookAttemptCount.WithLabelValues(target, outcome).Inc()
}

// IncrementNotificationEvent counts one emitted domain event.
func IncrementNotificationEvent(eventType string) {
	NotificationEventCount.WithLabelValues(eventType).Inc()
}

// RecordDBQueryDuration records the duration of a repository query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementSlowQuery counts one slow query.
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}

// RecordHTTPRequestDuration records the duration of an HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
