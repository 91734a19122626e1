package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"

	db "github.com/BanhTheCake/getnokori/internal/db/sqlc"
	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
	"github.com/BanhTheCake/getnokori/internal/platform/session"
	"github.com/BanhTheCake/getnokori/internal/platform/validation"
)

type mockService struct {
	sendID      uuid.UUID
	sendErr     error
	sendReqs    []domain.SendRequest
	listResult  domain.ListResult
	listErr     error
	send        db.MailSend
	getSendErr  error
	stats       []domain.StatPoint
	statsErr    error
	webhookErr  error
	webhookEnvs []domain.WebhookEnvelope
	templateErr error
	template    db.MailTemplate
}

func (m *mockService) SendMail(ctx context.Context, accountID uuid.UUID, req domain.SendRequest) (uuid.UUID, error) {
	m.sendReqs = append(m.sendReqs, req)
	return m.sendID, m.sendErr
}

func (m *mockService) GetMailSends(ctx context.Context, accountID uuid.UUID, opts domain.ListOptions) (domain.ListResult, error) {
	return m.listResult, m.listErr
}

func (m *mockService) GetMailSend(ctx context.Context, accountID, emailID uuid.UUID) (db.MailSend, error) {
	return m.send, m.getSendErr
}

func (m *mockService) GetSendsStats(ctx context.Context, accountID uuid.UUID, event, from, to string) ([]domain.StatPoint, error) {
	return m.stats, m.statsErr
}

func (m *mockService) ApplyDeliveryEvent(ctx context.Context, env domain.WebhookEnvelope) error {
	m.webhookEnvs = append(m.webhookEnvs, env)
	return m.webhookErr
}

func (m *mockService) CreateTemplate(ctx context.Context, accountID uuid.UUID, in domain.TemplateInput) error {
	return m.templateErr
}

func (m *mockService) GetTemplate(ctx context.Context, accountID uuid.UUID, templateID string) (db.MailTemplate, error) {
	return m.template, m.templateErr
}

func (m *mockService) ListTemplates(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]db.MailTemplate, error) {
	return nil, m.templateErr
}

func (m *mockService) UpdateTemplate(ctx context.Context, accountID uuid.UUID, in domain.TemplateInput) error {
	return m.templateErr
}

func (m *mockService) DeleteTemplate(ctx context.Context, accountID uuid.UUID, templateID string) error {
	return m.templateErr
}

type stubSettings struct{ vals map[string]string }

func (s stubSettings) GetString(ctx context.Context, key string, accountID *uuid.UUID, def string) (string, error) {
	if v, ok := s.vals[key]; ok {
		return v, nil
	}
	return def, nil
}

func (s stubSettings) Set(ctx context.Context, key string, accountID *uuid.UUID, value string) error {
	return nil
}

// seededSession stands in for the JWT middleware and pins the account.
func seededSession(id uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session.SetAccountID(c, id)
			return next(c)
		}
	}
}

func newTestServer(svc domain.Service, settings stubSettings, accountID uuid.UUID) *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	New(svc, settings).Register(e, seededSession(accountID))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSendMail_MapsValidationErrorTo400(t *testing.T) {
	svc := &mockService{sendErr: domain.Validation("to required")}
	e := newTestServer(svc, stubSettings{}, uuid.New())

	rec := doJSON(e, http.MethodPost, "/v1/mail/send", `{"subject":"hi","text":"body"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if resp["error"] != "to required" {
		t.Errorf("expected validation message, got %q", resp["error"])
	}
}

func TestSendMail_MapsVendorFailureTo502(t *testing.T) {
	svc := &mockService{sendErr: domain.ErrVendorSendFailed}
	e := newTestServer(svc, stubSettings{}, uuid.New())

	rec := doJSON(e, http.MethodPost, "/v1/mail/send", `{"to":"a@b.c","subject":"hi","text":"body"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestSendMail_ReturnsEmailID(t *testing.T) {
	id := uuid.New()
	svc := &mockService{sendID: id}
	e := newTestServer(svc, stubSettings{}, uuid.New())

	rec := doJSON(e, http.MethodPost, "/v1/mail/send", `{"to":"a@b.c","subject":"hi","text":"body"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if resp["emailId"] != id.String() {
		t.Errorf("expected email id %s, got %q", id, resp["emailId"])
	}
	if _, ok := resp["vendorMailId"]; ok {
		t.Errorf("vendor mail id must never appear in responses")
	}
}

func TestSendMail_WithoutSessionIs401(t *testing.T) {
	e := echo.New()
	e.Validator = validation.New()
	// pass-through middleware: no account seeded
	New(&mockService{}, stubSettings{}).Register(e, func(next echo.HandlerFunc) echo.HandlerFunc { return next })

	rec := doJSON(e, http.MethodPost, "/v1/mail/send", `{"to":"a@b.c","subject":"hi","text":"body"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func testMailSend(emailID, accountID uuid.UUID) db.MailSend {
	day, _ := time.Parse("2006-01-02", "2024-01-02")
	return db.MailSend{
		EmailID:      pgtype.UUID{Bytes: emailID, Valid: true},
		AccountID:    pgtype.UUID{Bytes: accountID, Valid: true},
		ToAddress:    "to@example.com",
		FromAddress:  "from@example.com",
		Subject:      "hello",
		Status:       domain.StatusDelivered,
		VendorMailID: pgtype.Text{String: "abc@mg.example.com", Valid: true},
		Date:         pgtype.Date{Time: day, Valid: true},
		CreatedAt:    pgtype.Timestamptz{Time: day, Valid: true},
	}
}

func TestGetSentMail_RowsOmitVendorMailID(t *testing.T) {
	emailID := uuid.New()
	accountID := uuid.New()
	svc := &mockService{listResult: domain.ListResult{
		Count: 1,
		Items: []db.MailSend{testMailSend(emailID, accountID)},
	}}
	e := newTestServer(svc, stubSettings{}, accountID)

	rec := doJSON(e, http.MethodGet, "/v1/mail/sent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "abc@mg.example.com") {
		t.Fatalf("vendor mail id leaked into listing: %s", rec.Body.String())
	}

	var resp struct {
		Count int64            `json:"count"`
		Rows  []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if resp.Count != 1 || len(resp.Rows) != 1 {
		t.Fatalf("unexpected listing shape: %s", rec.Body.String())
	}
	row := resp.Rows[0]
	if _, ok := row["vendorMailId"]; ok {
		t.Errorf("rows must not carry vendorMailId")
	}
	if row["emailId"] != emailID.String() {
		t.Errorf("expected email id %s, got %v", emailID, row["emailId"])
	}
	if row["recipientEmail"] != "to@example.com" {
		t.Errorf("expected recipientEmail, got %v", row["recipientEmail"])
	}
	if row["date"] != "2024-01-02" {
		t.Errorf("expected date 2024-01-02, got %v", row["date"])
	}
}

func TestGetSentMailSingle_OmitsVendorMailID(t *testing.T) {
	emailID := uuid.New()
	accountID := uuid.New()
	svc := &mockService{send: testMailSend(emailID, accountID)}
	e := newTestServer(svc, stubSettings{}, accountID)

	rec := doJSON(e, http.MethodGet, "/v1/mail/sent/"+emailID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var row map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &row); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if _, ok := row["vendorMailId"]; ok {
		t.Errorf("single-send response must not carry vendorMailId")
	}
	if row["to"] != "to@example.com" || row["status"] != domain.StatusDelivered {
		t.Errorf("unexpected response shape: %s", rec.Body.String())
	}
}

func TestGetSentMailSingle_InvalidIDIs400(t *testing.T) {
	e := newTestServer(&mockService{}, stubSettings{}, uuid.New())
	rec := doJSON(e, http.MethodGet, "/v1/mail/sent/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetSentMailSingle_NotFoundIs404(t *testing.T) {
	svc := &mockService{getSendErr: domain.ErrMailSendNotFound}
	e := newTestServer(svc, stubSettings{}, uuid.New())
	rec := doJSON(e, http.MethodGet, "/v1/mail/sent/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetSendStats_SerializesAsPairs(t *testing.T) {
	svc := &mockService{stats: []domain.StatPoint{
		{Date: "2024-01-01", Count: 3},
		{Date: "2024-01-02", Count: 0},
	}}
	e := newTestServer(svc, stubSettings{}, uuid.New())

	rec := doJSON(e, http.MethodGet, "/v1/mail/stats/sends?event=delivered", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `[["2024-01-01",3],["2024-01-02",0]]` {
		t.Errorf("unexpected stats payload: %s", got)
	}
}

func TestCreateTemplate_MissingFieldsIs400(t *testing.T) {
	e := newTestServer(&mockService{}, stubSettings{}, uuid.New())
	rec := doJSON(e, http.MethodPost, "/v1/mail/templates", `{"templateId":"welcome"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing subject/template, got %d", rec.Code)
	}
}

func TestCreateTemplate_DuplicateIs409(t *testing.T) {
	svc := &mockService{templateErr: domain.ErrTemplateExists}
	e := newTestServer(svc, stubSettings{}, uuid.New())
	body := `{"templateId":"welcome","subject":"s","template":"<p>t</p>"}`
	rec := doJSON(e, http.MethodPost, "/v1/mail/templates", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetSetting_MasksSecrets(t *testing.T) {
	settings := stubSettings{vals: map[string]string{"mail.mailgun.api_key": "key-secret"}}
	e := newTestServer(&mockService{}, settings, uuid.New())

	rec := doJSON(e, http.MethodGet, "/v1/mail/settings/mail.mailgun.api_key", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "key-secret") {
		t.Fatalf("secret value leaked: %s", rec.Body.String())
	}
}

func TestMailgunWebhook_AlwaysAcknowledges(t *testing.T) {
	svc := &mockService{webhookErr: errors.New("db down")}
	e := newTestServer(svc, stubSettings{}, uuid.New())

	body := `{"event-data":{"event":"delivered","message":{"headers":{"message-id":"abc@mg.example.com"}}}}`
	rec := doJSON(e, http.MethodPost, "/v1/mail/vendors/mailgun/webhooks", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook must return 200 even on reconciliation failure, got %d", rec.Code)
	}
	if len(svc.webhookEnvs) != 1 {
		t.Fatalf("expected service to receive the event")
	}
	if svc.webhookEnvs[0].EventData.Message.Headers.MessageID != "abc@mg.example.com" {
		t.Errorf("message id not bound: %+v", svc.webhookEnvs[0])
	}
}

func TestMailgunWebhook_UnparseablePayloadAcknowledged(t *testing.T) {
	svc := &mockService{}
	e := newTestServer(svc, stubSettings{}, uuid.New())

	rec := doJSON(e, http.MethodPost, "/v1/mail/vendors/mailgun/webhooks", `not-json`)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook must return 200 on unparseable payload, got %d", rec.Code)
	}
	if len(svc.webhookEnvs) != 0 {
		t.Fatalf("unparseable payload must not reach the service")
	}
}

func TestMailgunWebhook_NoSessionRequired(t *testing.T) {
	svc := &mockService{}
	e := echo.New()
	e.Validator = validation.New()
	// the real session middleware would reject everything without a token
	reject := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "no token"})
		}
	}
	New(svc, stubSettings{}).Register(e, reject)

	body := `{"event-data":{"event":"opened","message":{"headers":{"message-id":"abc@mg.example.com"}}}}`
	rec := doJSON(e, http.MethodPost, "/v1/mail/vendors/mailgun/webhooks", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook must bypass the session group, got %d", rec.Code)
	}
}
