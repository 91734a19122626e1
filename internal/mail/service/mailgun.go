package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/BanhTheCake/getnokori/internal/config"
	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
	sdomain "github.com/BanhTheCake/getnokori/internal/settings/domain"
)

// Ensure Mailgun implements domain.Vendor
var _ domain.Vendor = (*Mailgun)(nil)

// customHeaderPrefix is Mailgun's convention for passing arbitrary MIME
// headers through the messages API.
const customHeaderPrefix = "h:"

type Mailgun struct {
	cfg      config.Config
	settings sdomain.Service
	http     *http.Client
}

func NewMailgun(settings sdomain.Service, cfg config.Config) *Mailgun {
	return &Mailgun{settings: settings, cfg: cfg, http: &http.Client{Timeout: cfg.VendorTimeout}}
}

type mailgunSendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (m *Mailgun) Send(ctx context.Context, accountID uuid.UUID, req domain.VendorRequest) (string, error) {
	apiKey, _ := m.settings.GetString(ctx, sdomain.KeyMailgunAPIKey, &accountID, m.cfg.MailgunAPIKey)
	mailDomain, _ := m.settings.GetString(ctx, sdomain.KeyMailgunDomain, &accountID, m.cfg.MailgunDomain)
	if apiKey == "" || mailDomain == "" {
		return "", fmt.Errorf("%w: mailgun not configured", domain.ErrVendorSendFailed)
	}

	form := url.Values{}
	form.Set("to", req.To)
	form.Set("from", req.From)
	form.Set("subject", req.Subject)
	if req.Text != "" {
		form.Set("text", req.Text)
	}
	if req.HTML != "" {
		form.Set("html", req.HTML)
	}
	for k, v := range mapHeaders(req.Headers) {
		form.Set(k, v)
	}

	endpoint := fmt.Sprintf("%s/v3/%s/messages", strings.TrimRight(m.cfg.MailgunAPIBase, "/"), mailDomain)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrVendorSendFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth("api", apiKey)

	resp, err := m.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrVendorSendFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s: %s", domain.ErrVendorSendFailed, resp.Status, strings.TrimSpace(string(body)))
	}

	var out mailgunSendResponse
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		return "", fmt.Errorf("%w: unparseable vendor response", domain.ErrVendorSendFailed)
	}
	return parseMailID(out.ID), nil
}

// mapHeaders converts a caller header map into Mailgun's h:-prefixed form
// fields. Keys already carrying the prefix pass through untouched.
func mapHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	mapped := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.HasPrefix(k, customHeaderPrefix) {
			mapped[k] = v
			continue
		}
		mapped[customHeaderPrefix+k] = v
	}
	return mapped
}

// parseMailID strips the RFC 5322 angle brackets from the vendor's message
// id. Webhook events echo the id without brackets, so the stored form must
// match for correlation.
func parseMailID(id string) string {
	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(id), "<"), ">")
}
