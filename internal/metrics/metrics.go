package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// mailSendsTotal counts dispatch attempts by outcome.
	// Labels:
	// - outcome: "accepted" (vendor took the message), "rejected" (vendor/transport failure),
	//            "invalid" (request failed validation), "unrecorded" (vendor accepted, ledger write failed)
	mailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "getnokori",
			Subsystem: "mail",
			Name:      "sends_total",
			Help:      "Total number of mail dispatch attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// webhookEventsTotal counts inbound vendor delivery events.
	// Labels:
	// - event:   the vendor event name ("delivered", "failed", ...) or "unknown"
	// - outcome: "applied", "orphaned" (no matching ledger row), "discarded" (uncorrelatable payload)
	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "getnokori",
			Subsystem: "mail",
			Name:      "webhook_events_total",
			Help:      "Total number of vendor delivery-lifecycle webhook events by outcome.",
		},
		[]string{"event", "outcome"},
	)
)

// Send outcomes.
const (
	SendAccepted   = "accepted"
	SendRejected   = "rejected"
	SendInvalid    = "invalid"
	SendUnrecorded = "unrecorded"
)

// Webhook outcomes.
const (
	WebhookApplied   = "applied"
	WebhookOrphaned  = "orphaned"
	WebhookDiscarded = "discarded"
)

func IncMailSend(outcome string) {
	mailSendsTotal.WithLabelValues(outcome).Inc()
}

func IncWebhookEvent(event, outcome string) {
	if event == "" {
		event = "unknown"
	}
	webhookEventsTotal.WithLabelValues(event, outcome).Inc()
}
