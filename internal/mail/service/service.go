package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/BanhTheCake/getnokori/internal/config"
	db "github.com/BanhTheCake/getnokori/internal/db/sqlc"
	evdomain "github.com/BanhTheCake/getnokori/internal/events/domain"
	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
	"github.com/BanhTheCake/getnokori/internal/metrics"
	"github.com/BanhTheCake/getnokori/internal/platform/usage"
	sdomain "github.com/BanhTheCake/getnokori/internal/settings/domain"
)

const dateLayout = "2006-01-02"

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

type service struct {
	repo     domain.Repository
	vendor   domain.Vendor
	resolver domain.Resolver
	settings sdomain.Service
	usage    usage.Counter
	events   evdomain.Publisher

	defaultFrom string
}

func New(repo domain.Repository, vendor domain.Vendor, resolver domain.Resolver, settings sdomain.Service, counter usage.Counter, events evdomain.Publisher, cfg config.Config) domain.Service {
	return &service{
		repo:        repo,
		vendor:      vendor,
		resolver:    resolver,
		settings:    settings,
		usage:       counter,
		events:      events,
		defaultFrom: cfg.MailFrom,
	}
}

// SendMail validates the request, resolves content, dispatches through the
// vendor and records the attempt in the ledger. The vendor call is
// at-most-once: there is no retry, and a ledger write failure after the
// vendor accepted the message is logged but never rolls the send back.
func (s *service) SendMail(ctx context.Context, accountID uuid.UUID, req domain.SendRequest) (uuid.UUID, error) {
	defer s.countSendAttempt(accountID)

	vreq, err := s.resolveRequest(ctx, accountID, req)
	if err != nil {
		metrics.IncMailSend(metrics.SendInvalid)
		return uuid.Nil, err
	}

	vendorMailID, err := s.vendor.Send(ctx, accountID, vreq)
	if err != nil {
		metrics.IncMailSend(metrics.SendRejected)
		return uuid.Nil, err
	}

	emailID := uuid.New()
	now := time.Now().UTC()
	if err := s.repo.CreateSend(ctx, domain.CreateSendParams{
		EmailID:      emailID,
		AccountID:    accountID,
		To:           vreq.To,
		From:         vreq.From,
		Subject:      vreq.Subject,
		VendorMailID: vendorMailID,
		Status:       domain.StatusQueued,
		Date:         now,
	}); err != nil {
		// The message is already with the vendor and cannot be recalled.
		// Surface the gap loudly for manual reconciliation and move on.
		log.Ctx(ctx).Error().Err(err).
			Str("email_id", emailID.String()).
			Str("vendor_mail_id", vendorMailID).
			Str("account_id", accountID.String()).
			Msg("mail dispatched but ledger write failed")
		metrics.IncMailSend(metrics.SendUnrecorded)
		s.publish(ctx, accountID, "mail.send.unrecorded", map[string]string{
			"email_id":       emailID.String(),
			"vendor_mail_id": vendorMailID,
		})
		return emailID, nil
	}

	metrics.IncMailSend(metrics.SendAccepted)
	s.publish(ctx, accountID, "mail.send.accepted", map[string]string{
		"email_id":       emailID.String(),
		"vendor_mail_id": vendorMailID,
	})
	return emailID, nil
}

// resolveRequest walks the validation chain in order and returns the
// fully-resolved vendor request.
func (s *service) resolveRequest(ctx context.Context, accountID uuid.UUID, req domain.SendRequest) (domain.VendorRequest, error) {
	if req.To == "" {
		return domain.VendorRequest{}, domain.Validation("to required")
	}

	from := req.From
	if from == "" {
		var err error
		from, err = s.settings.GetString(ctx, sdomain.KeyDefaultFrom, &accountID, s.defaultFrom)
		if err != nil || from == "" {
			return domain.VendorRequest{}, domain.Validation("from required")
		}
	}

	if req.Subject == "" {
		return domain.VendorRequest{}, domain.Validation("subject required")
	}

	vreq := domain.VendorRequest{
		To:      req.To,
		From:    from,
		Subject: req.Subject,
		Headers: req.Headers,
	}

	if req.TemplateID != "" {
		// Templated sends ignore any supplied text/html.
		resolved, err := s.resolver.Resolve(ctx, accountID, req.TemplateID, req.Context)
		if err != nil {
			if errors.Is(err, domain.ErrTemplateNotFound) {
				return domain.VendorRequest{}, domain.Validation("template not found")
			}
			return domain.VendorRequest{}, err
		}
		vreq.HTML = resolved.HTML
		vreq.Text = resolved.Text
		if resolved.Subject != "" {
			vreq.Subject = resolved.Subject
		}
		return vreq, nil
	}

	if req.Text == "" && req.HTML == "" {
		return domain.VendorRequest{}, domain.Validation("content required")
	}
	vreq.Text = req.Text
	vreq.HTML = req.HTML
	return vreq, nil
}

// countSendAttempt increments the tenant's email-sends usage metric. It is a
// metering side channel: fire-and-forget, detached from the request context
// so a slow counter cannot delay the response.
func (s *service) countSendAttempt(accountID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.usage.Increment(ctx, accountID, usage.MetricEmailSends, 1); err != nil {
			log.Warn().Err(err).Str("account_id", accountID.String()).Msg("usage increment failed")
		}
	}()
}

func (s *service) publish(ctx context.Context, accountID uuid.UUID, typ string, meta map[string]string) {
	_ = s.events.Publish(ctx, evdomain.Event{
		Type:      typ,
		AccountID: accountID,
		Meta:      meta,
		Time:      time.Now().UTC(),
	})
}

func (s *service) GetMailSends(ctx context.Context, accountID uuid.UUID, opts domain.ListOptions) (domain.ListResult, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, to := today.AddDate(0, 0, -7), today
	var err error
	if opts.From != "" {
		if from, err = time.Parse(dateLayout, opts.From); err != nil {
			return domain.ListResult{}, domain.Validation("invalid from date")
		}
	}
	if opts.To != "" {
		if to, err = time.Parse(dateLayout, opts.To); err != nil {
			return domain.ListResult{}, domain.Validation("invalid to date")
		}
	}
	if opts.Limit <= 0 {
		opts.Limit = 25
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	items, err := s.repo.ListSends(ctx, accountID, from, to, int32(opts.Limit), int32(opts.Offset))
	if err != nil {
		return domain.ListResult{}, err
	}
	count, err := s.repo.CountSends(ctx, accountID, from, to)
	if err != nil {
		return domain.ListResult{}, err
	}
	return domain.ListResult{Count: count, Items: items}, nil
}

func (s *service) GetMailSend(ctx context.Context, accountID, emailID uuid.UUID) (db.MailSend, error) {
	row, err := s.repo.GetSend(ctx, accountID, emailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.MailSend{}, domain.ErrMailSendNotFound
		}
		return db.MailSend{}, err
	}
	return row, nil
}

func (s *service) CreateTemplate(ctx context.Context, accountID uuid.UUID, in domain.TemplateInput) error {
	if in.TemplateID == "" {
		return domain.Validation("templateId required")
	}
	if in.Subject == "" {
		return domain.Validation("subject required")
	}
	if in.Template == "" {
		return domain.Validation("template required")
	}
	if err := s.repo.CreateTemplate(ctx, accountID, in); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrTemplateExists
		}
		return err
	}
	return nil
}

func (s *service) GetTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (db.MailTemplate, error) {
	tpl, err := s.repo.GetTemplate(ctx, accountID, templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.MailTemplate{}, domain.ErrTemplateNotFound
		}
		return db.MailTemplate{}, err
	}
	return tpl, nil
}

func (s *service) ListTemplates(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]db.MailTemplate, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTemplates(ctx, accountID, int32(limit), int32(offset))
}

func (s *service) UpdateTemplate(ctx context.Context, accountID uuid.UUID, in domain.TemplateInput) error {
	if in.TemplateID == "" {
		return domain.Validation("templateId required")
	}
	n, err := s.repo.UpdateTemplate(ctx, accountID, in)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (s *service) DeleteTemplate(ctx context.Context, accountID uuid.UUID, templateID string) error {
	if templateID == "" {
		return domain.Validation("templateId required")
	}
	n, err := s.repo.DeleteTemplate(ctx, accountID, templateID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}
