package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	db "github.com/BanhTheCake/getnokori/internal/db/sqlc"
)

// Send lifecycle statuses. These mirror the vendor's delivery event names so
// the initial status and webhook-applied statuses share one vocabulary.
const (
	StatusQueued       = "queued"
	StatusDelivered    = "delivered"
	StatusFailed       = "failed"
	StatusOpened       = "opened"
	StatusClicked      = "clicked"
	StatusComplained   = "complained"
	StatusUnsubscribed = "unsubscribed"
)

// SendRequest is a caller's send-mail request, before resolution.
type SendRequest struct {
	To         string            `json:"to"`
	From       string            `json:"from,omitempty"`
	Subject    string            `json:"subject"`
	TemplateID string            `json:"templateId,omitempty"`
	Text       string            `json:"text,omitempty"`
	HTML       string            `json:"html,omitempty"`
	Context    map[string]any    `json:"context,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// VendorRequest is a fully-resolved message ready for the vendor adapter.
type VendorRequest struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
	Headers map[string]string
}

// Vendor performs the actual dispatch call to the transactional-mail vendor
// and returns the vendor-assigned message id. Implementations do not retry;
// retry policy, if any, belongs to the caller.
type Vendor interface {
	Send(ctx context.Context, accountID uuid.UUID, req VendorRequest) (vendorMailID string, err error)
}

// Resolved is the output of template resolution.
type Resolved struct {
	Subject string
	HTML    string
	Text    string
}

// Resolver renders a stored template with a caller-supplied context.
type Resolver interface {
	Resolve(ctx context.Context, accountID uuid.UUID, templateID string, callerCtx map[string]any) (Resolved, error)
}

// ListOptions filters the sent-mail listing. From/To are inclusive
// "2006-01-02" dates.
type ListOptions struct {
	From   string
	To     string
	Offset int
	Limit  int
}

// ListResult holds a page of sends plus the unpaged count.
type ListResult struct {
	Count int64
	Items []db.MailSend
}

// StatPoint is one bucket of the daily send-stats series. It serializes as a
// ["2006-01-02", n] pair to match the platform's trend payloads.
type StatPoint struct {
	Date  string
	Count int64
}

// TemplateInput carries caller-supplied template fields for create/update.
type TemplateInput struct {
	TemplateID   string
	TemplateName string
	Subject      string
	Template     string
	Context      map[string]any
}

// CreateSendParams describes the ledger row written after a vendor accept.
type CreateSendParams struct {
	EmailID      uuid.UUID
	AccountID    uuid.UUID
	To           string
	From         string
	Subject      string
	VendorMailID string
	Status       string
	Date         time.Time
}

// Repository abstracts the mail send ledger and template storage.
type Repository interface {
	CreateSend(ctx context.Context, p CreateSendParams) error
	GetSend(ctx context.Context, accountID, emailID uuid.UUID) (db.MailSend, error)
	GetSendIDByVendorMailID(ctx context.Context, vendorMailID string) (uuid.UUID, error)
	UpdateSendStatus(ctx context.Context, emailID uuid.UUID, status, deliveryDetails string) (int64, error)
	ListSends(ctx context.Context, accountID uuid.UUID, from, to time.Time, limit, offset int32) ([]db.MailSend, error)
	CountSends(ctx context.Context, accountID uuid.UUID, from, to time.Time) (int64, error)
	SendStatsByDay(ctx context.Context, accountID uuid.UUID, status string, from, to time.Time) ([]db.GetMailSendStatsByDayRow, error)

	CreateTemplate(ctx context.Context, accountID uuid.UUID, in TemplateInput) error
	GetTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (db.MailTemplate, error)
	ListTemplates(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]db.MailTemplate, error)
	UpdateTemplate(ctx context.Context, accountID uuid.UUID, in TemplateInput) (int64, error)
	DeleteTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (int64, error)
}

// Service encapsulates the send-and-reconcile pipeline.
type Service interface {
	SendMail(ctx context.Context, accountID uuid.UUID, req SendRequest) (uuid.UUID, error)
	GetMailSends(ctx context.Context, accountID uuid.UUID, opts ListOptions) (ListResult, error)
	GetMailSend(ctx context.Context, accountID, emailID uuid.UUID) (db.MailSend, error)
	GetSendsStats(ctx context.Context, accountID uuid.UUID, event, from, to string) ([]StatPoint, error)

	ApplyDeliveryEvent(ctx context.Context, env WebhookEnvelope) error

	CreateTemplate(ctx context.Context, accountID uuid.UUID, in TemplateInput) error
	GetTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (db.MailTemplate, error)
	ListTemplates(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]db.MailTemplate, error)
	UpdateTemplate(ctx context.Context, accountID uuid.UUID, in TemplateInput) error
	DeleteTemplate(ctx context.Context, accountID uuid.UUID, templateID string) error
}
