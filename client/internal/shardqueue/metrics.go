package shardqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// queueDepth is only updated in the worker goroutine, so each shard label has
// a single writer.
var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packmate",
			Subsystem: "refresh_queue",
			Name:      "submissions_total",
			Help:      "Jobs accepted for execution.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packmate",
			Subsystem: "refresh_queue",
			Name:      "queue_full_total",
			Help:      "Enqueue attempts that timed out (per-shard queue full).",
		},
		[]string{"shard"},
	)

	jobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packmate",
			Subsystem: "refresh_queue",
			Name:      "job_failures_total",
			Help:      "Jobs that returned an error or panicked after their last attempt.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "packmate",
			Subsystem: "refresh_queue",
			Name:      "run_duration_seconds",
			Help:      "Job execution latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "packmate",
			Subsystem: "refresh_queue",
			Name:      "queue_depth",
			Help:      "Current depth of each shard queue.",
		},
		[]string{"shard"},
	)
)

func labelFor(i int) string { return strconv.Itoa(i) }
