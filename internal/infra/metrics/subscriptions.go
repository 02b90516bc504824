package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		activationsTotal,
		periodResolutionsDegraded,
	)
}

var (
	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_activations_total",
			Help: "Activation engine outcomes (activated/skipped/failed).",
		},
		[]string{"outcome"},
	)

	periodResolutionsDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plan_period_resolutions_degraded_total",
			Help: "Period resolutions that fell through to the default length.",
		},
	)
)

func IncActivation(outcome string) {
	activationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncDegradedPeriodResolution() {
	periodResolutionsDegraded.Inc()
}
