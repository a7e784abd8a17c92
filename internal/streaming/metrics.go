package streaming

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flowserve_active_stream_sessions",
		Help: "Number of stream sessions currently open",
	})

	eventsStreamedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowserve_stream_events_total",
		Help: "Number of events written to clients, by event type",
	}, []string{"event"})

	eventResidency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowserve_event_residency_seconds",
		Help:    "Time events spend in the channel before the adapter picks them up",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4.0, 10), // 100µs .. ~26s
	})

	eventHandling = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowserve_event_handling_seconds",
		Help:    "Time spent serializing and writing one event to the transport",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4.0, 10),
	})
)

func recordSessionOpened() {
	activeSessions.Inc()
}

func recordSessionClosed() {
	activeSessions.Dec()
}

func recordEventStreamed(kind PayloadKind, residency, handling time.Duration) {
	eventsStreamedTotal.WithLabelValues(kind.String()).Inc()
	eventResidency.Observe(residency.Seconds())
	eventHandling.Observe(handling.Seconds())
}
