package domain

// WebhookEnvelope is the vendor's delivery-event callback payload.
type WebhookEnvelope struct {
	EventData DeliveryEvent `json:"event-data"`
}

// DeliveryEvent is one delivery-lifecycle event for a previously sent message.
type DeliveryEvent struct {
	Event          string         `json:"event"`
	Recipient      string         `json:"recipient"`
	Severity       string         `json:"severity"`
	Reason         string         `json:"reason"`
	Timestamp      float64        `json:"timestamp"`
	Message        EventMessage   `json:"message"`
	DeliveryStatus map[string]any `json:"delivery-status"`
}

// EventMessage carries the vendor's echo of the original message metadata.
type EventMessage struct {
	Headers MessageHeaders `json:"headers"`
}

// MessageHeaders holds the header subset the reconciler correlates on.
type MessageHeaders struct {
	MessageID string `json:"message-id"`
}

// deliveryStatusDenyList names the diagnostic sub-fields stripped from a
// delivery-status payload before storage, to bound stored payload size.
var deliveryStatusDenyList = []string{
	"session-seconds",
	"attempt-no",
	"utf8",
	"certificate-verified",
}

// RetainedDeliveryStatus returns the delivery-status payload to persist:
// deny-listed diagnostics removed, recipient and timestamp attached, and for
// failed events the reason and severity folded in.
func (e DeliveryEvent) RetainedDeliveryStatus() map[string]any {
	retained := make(map[string]any, len(e.DeliveryStatus)+4)
	for k, v := range e.DeliveryStatus {
		retained[k] = v
	}
	for _, k := range deliveryStatusDenyList {
		delete(retained, k)
	}
	retained["recipient"] = e.Recipient
	retained["timestamp"] = e.Timestamp
	if e.Event == StatusFailed {
		retained["reason"] = e.Reason
		retained["severity"] = e.Severity
	}
	return retained
}
