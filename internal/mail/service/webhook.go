package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
	"github.com/BanhTheCake/getnokori/internal/metrics"
)

// ApplyDeliveryEvent reconciles one vendor delivery event onto the ledger.
// Events may arrive out of order, duplicated, or for sends this system never
// recorded; uncorrelatable events are discarded, and the matched-row update
// is last-write-wins since the vendor provides no ordering token.
func (s *service) ApplyDeliveryEvent(ctx context.Context, env domain.WebhookEnvelope) error {
	ev := env.EventData

	vendorMailID := ev.Message.Headers.MessageID
	if vendorMailID == "" {
		log.Ctx(ctx).Error().Str("event", ev.Event).Msg("webhook event has no message id")
		metrics.IncWebhookEvent(ev.Event, metrics.WebhookDiscarded)
		return nil
	}

	emailID, err := s.repo.GetSendIDByVendorMailID(ctx, vendorMailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Possibly a send not yet committed locally, or another system's
			// message entirely. Never create a row for an orphan event.
			log.Ctx(ctx).Error().
				Str("vendor_mail_id", vendorMailID).
				Str("event", ev.Event).
				Msg("no mail send found for webhook event")
			metrics.IncWebhookEvent(ev.Event, metrics.WebhookOrphaned)
			return nil
		}
		return err
	}

	details, err := json.Marshal(ev.RetainedDeliveryStatus())
	if err != nil {
		return err
	}

	if _, err := s.repo.UpdateSendStatus(ctx, emailID, ev.Event, string(details)); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("email_id", emailID.String()).
			Str("event", ev.Event).
			Msg("failed to update mail send from webhook")
		return err
	}

	metrics.IncWebhookEvent(ev.Event, metrics.WebhookApplied)
	s.publish(ctx, uuid.Nil, "mail.webhook.applied", map[string]string{
		"email_id":       emailID.String(),
		"vendor_mail_id": vendorMailID,
		"event":          ev.Event,
	})
	return nil
}
