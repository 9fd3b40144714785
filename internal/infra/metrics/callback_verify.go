package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		CallbackVerifyRequests,
		CallbackVerifyDuration,
	)
}

var (
	// Count of callback verifications grouped by result and bounded reason.
	// result: granted|already_granted|denied|transient|malformed
	// reason (denied/transient only): not_approved|currency_mismatch|
	// amount_shortfall|instance_full|unknown_instance|malformed_response|
	// gateway_unreachable|callback_in_flight
	CallbackVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrol_callback_verify_requests_total",
			Help: "Count of gateway callback verifications by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the full callback pipeline grouped by result.
	CallbackVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrol_callback_verify_duration_seconds",
			Help:    "Duration of the callback verification pipeline in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"result"},
	)
)
