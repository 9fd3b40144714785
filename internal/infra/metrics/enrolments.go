package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		EnrolmentsTotal,
		AttemptsTotal,
	)
}

var (
	// Enrolment grants by terminal state (granted/already_granted).
	EnrolmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrolments_total",
			Help: "Enrolment grants by terminal state.",
		},
		[]string{"state"},
	)

	// Payment attempts by status transition (initiated/verified/failed).
	AttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_attempts_total",
			Help: "Payment attempts by status.",
		},
		[]string{"status"},
	)
)
