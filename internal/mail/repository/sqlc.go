package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/BanhTheCake/getnokori/internal/db/sqlc"
	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
)

type SQLCRepository struct {
	q *db.Queries
}

func New(pg *pgxpool.Pool) *SQLCRepository {
	return &SQLCRepository{q: db.New(pg)}
}

func toPgUUID(u uuid.UUID) pgtype.UUID {
	var id pgtype.UUID
	id.Bytes = u
	id.Valid = true
	return id
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

func (r *SQLCRepository) CreateSend(ctx context.Context, p domain.CreateSendParams) error {
	return r.q.CreateMailSend(ctx, db.CreateMailSendParams{
		EmailID:      toPgUUID(p.EmailID),
		AccountID:    toPgUUID(p.AccountID),
		ToAddress:    p.To,
		FromAddress:  p.From,
		Subject:      p.Subject,
		VendorMailID: toPgText(p.VendorMailID),
		Status:       p.Status,
		Date:         toPgDate(p.Date),
	})
}

func (r *SQLCRepository) GetSend(ctx context.Context, accountID, emailID uuid.UUID) (db.MailSend, error) {
	return r.q.GetMailSend(ctx, db.GetMailSendParams{
		AccountID: toPgUUID(accountID),
		EmailID:   toPgUUID(emailID),
	})
}

func (r *SQLCRepository) GetSendIDByVendorMailID(ctx context.Context, vendorMailID string) (uuid.UUID, error) {
	id, err := r.q.GetMailSendIDByVendorMailID(ctx, toPgText(vendorMailID))
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.UUID(id.Bytes), nil
}

func (r *SQLCRepository) UpdateSendStatus(ctx context.Context, emailID uuid.UUID, status, deliveryDetails string) (int64, error) {
	return r.q.UpdateMailSendStatus(ctx, db.UpdateMailSendStatusParams{
		EmailID:         toPgUUID(emailID),
		Status:          status,
		DeliveryDetails: toPgText(deliveryDetails),
	})
}

func (r *SQLCRepository) ListSends(ctx context.Context, accountID uuid.UUID, from, to time.Time, limit, offset int32) ([]db.MailSend, error) {
	return r.q.ListMailSends(ctx, db.ListMailSendsParams{
		AccountID: toPgUUID(accountID),
		FromDate:  toPgDate(from),
		ToDate:    toPgDate(to),
		Limit:     limit,
		Offset:    offset,
	})
}

func (r *SQLCRepository) CountSends(ctx context.Context, accountID uuid.UUID, from, to time.Time) (int64, error) {
	return r.q.CountMailSends(ctx, db.CountMailSendsParams{
		AccountID: toPgUUID(accountID),
		FromDate:  toPgDate(from),
		ToDate:    toPgDate(to),
	})
}

func (r *SQLCRepository) SendStatsByDay(ctx context.Context, accountID uuid.UUID, status string, from, to time.Time) ([]db.GetMailSendStatsByDayRow, error) {
	return r.q.GetMailSendStatsByDay(ctx, db.GetMailSendStatsByDayParams{
		AccountID: toPgUUID(accountID),
		Status:    status,
		FromDate:  toPgDate(from),
		ToDate:    toPgDate(to),
	})
}

func marshalContext(ctxMap map[string]any) ([]byte, error) {
	if ctxMap == nil {
		return nil, nil
	}
	return json.Marshal(ctxMap)
}

func (r *SQLCRepository) CreateTemplate(ctx context.Context, accountID uuid.UUID, in domain.TemplateInput) error {
	raw, err := marshalContext(in.Context)
	if err != nil {
		return err
	}
	return r.q.CreateMailTemplate(ctx, db.CreateMailTemplateParams{
		ID:           toPgUUID(uuid.New()),
		AccountID:    toPgUUID(accountID),
		TemplateID:   in.TemplateID,
		TemplateName: in.TemplateName,
		Subject:      in.Subject,
		Template:     in.Template,
		Context:      raw,
	})
}

func (r *SQLCRepository) GetTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (db.MailTemplate, error) {
	return r.q.GetMailTemplate(ctx, db.GetMailTemplateParams{
		AccountID:  toPgUUID(accountID),
		TemplateID: templateID,
	})
}

func (r *SQLCRepository) ListTemplates(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]db.MailTemplate, error) {
	return r.q.ListMailTemplates(ctx, db.ListMailTemplatesParams{
		AccountID: toPgUUID(accountID),
		Limit:     limit,
		Offset:    offset,
	})
}

func (r *SQLCRepository) UpdateTemplate(ctx context.Context, accountID uuid.UUID, in domain.TemplateInput) (int64, error) {
	raw, err := marshalContext(in.Context)
	if err != nil {
		return 0, err
	}
	return r.q.UpdateMailTemplate(ctx, db.UpdateMailTemplateParams{
		AccountID:    toPgUUID(accountID),
		TemplateID:   in.TemplateID,
		TemplateName: in.TemplateName,
		Subject:      in.Subject,
		Template:     in.Template,
		Context:      raw,
	})
}

func (r *SQLCRepository) DeleteTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (int64, error) {
	return r.q.DeleteMailTemplate(ctx, db.DeleteMailTemplateParams{
		AccountID:  toPgUUID(accountID),
		TemplateID: templateID,
	})
}
