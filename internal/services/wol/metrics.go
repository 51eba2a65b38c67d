package wol

import "github.com/prometheus/client_golang/prometheus"

var (
	// SendAttemptsTotal counts single-socket send attempts by result.
	SendAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wolgate_send_attempts_total",
			Help: "Number of magic packet send attempts",
		},
		[]string{"result"},
	)

	// InterfacesDispatchedTotal counts interfaces used by all-interface sends.
	InterfacesDispatchedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wolgate_interfaces_dispatched_total",
			Help: "Number of interfaces a magic packet was dispatched on",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SendAttemptsTotal,
		InterfacesDispatchedTotal,
	)
}
