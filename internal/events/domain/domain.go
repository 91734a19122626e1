package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event represents an audit event on the mail pipeline.
// Type examples: "mail.send.accepted", "mail.webhook.orphaned"
// Meta may contain email_id, vendor_mail_id, event name, etc.
type Event struct {
	Type      string
	AccountID uuid.UUID
	Meta      map[string]string
	Time      time.Time
}

// Publisher publishes events to an external system (log, queue, etc.).
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
