package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowserve_runs_total",
		Help: "Number of single-shot flow runs, by outcome",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowserve_run_duration_seconds",
		Help:    "Duration of single-shot flow runs in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4.0, 10), // 1ms .. ~4.3m
	})
)

func recordRun(outcome string, duration time.Duration) {
	runsTotal.WithLabelValues(outcome).Inc()
	runDuration.Observe(duration.Seconds())
}
