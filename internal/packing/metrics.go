package packing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packmate",
			Subsystem: "packing",
			Name:      "mutations_total",
			Help:      "Pack and unpack calls by outcome.",
		},
		[]string{"action", "outcome"},
	)

	staleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "packmate",
			Subsystem: "packing",
			Name:      "stale_responses_total",
			Help:      "Responses dropped because the active trip changed while they were in flight.",
		},
		[]string{"kind"},
	)
)
