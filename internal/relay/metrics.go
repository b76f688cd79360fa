package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery results recorded by WebhookMetrics.
const (
	ResultAccepted         = "accepted"
	ResultInvalidPayload   = "invalid_payload"
	ResultInvalidSignature = "invalid_signature"
	ResultPublishFailed    = "publish_failed"
)

// WebhookMetrics counts webhook deliveries and the events relayed from them.
type WebhookMetrics struct {
	deliveries *prometheus.CounterVec
	events     *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook series with reg under namespace.
func NewWebhookMetrics(reg prometheus.Registerer, namespace string) *WebhookMetrics {
	factory := promauto.With(reg)

	return &WebhookMetrics{
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "deliveries_total",
				Help:      "Webhook deliveries by result.",
			},
			[]string{"result"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "events_total",
				Help:      "Events received in webhook deliveries, by publish outcome.",
			},
			[]string{"outcome"},
		),
	}
}

func (m *WebhookMetrics) delivery(result string) {
	if m == nil {
		return
	}

	m.deliveries.WithLabelValues(result).Inc()
}

func (m *WebhookMetrics) event(published bool) {
	if m == nil {
		return
	}

	outcome := "published"
	if !published {
		outcome = "failed"
	}

	m.events.WithLabelValues(outcome).Inc()
}
