package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookVerificationsTotal,
		webhookEventsTotal,
	)
}

var (
	webhookVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_verifications_total",
			Help: "Webhook signature checks by result (verified/rejected reasons).",
		},
		[]string{"result"},
	)

	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook deliveries by event type.",
		},
		[]string{"type"},
	)
)

func IncWebhookVerification(result string) {
	webhookVerificationsTotal.WithLabelValues(norm(result)).Inc()
}

func IncWebhookEvent(eventType string) {
	webhookEventsTotal.WithLabelValues(norm(eventType)).Inc()
}
