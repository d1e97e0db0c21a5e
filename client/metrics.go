package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "packmate_client",
		Name:      "requests_total",
		Help:      "API calls made by the SDK, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	requestsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case StatusCode(err) != 0:
		return "api_error"
	default:
		return "error"
	}
}
