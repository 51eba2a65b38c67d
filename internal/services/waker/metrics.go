package waker

import "github.com/prometheus/client_golang/prometheus"

// WakeRequestsTotal counts wake requests by outcome.
var WakeRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wolgate_wake_requests_total",
		Help: "Number of wake requests by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(WakeRequestsTotal)
}
