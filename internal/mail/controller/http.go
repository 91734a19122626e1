package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	db "github.com/BanhTheCake/getnokori/internal/db/sqlc"
	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
	"github.com/BanhTheCake/getnokori/internal/platform/session"
	"github.com/BanhTheCake/getnokori/internal/platform/validation"
	sdomain "github.com/BanhTheCake/getnokori/internal/settings/domain"
)

type Controller struct {
	svc      domain.Service
	settings sdomain.Service
}

func New(svc domain.Service, settings sdomain.Service) *Controller {
	return &Controller{svc: svc, settings: settings}
}

// Register wires the mail routes. The vendor webhook is registered outside
// the session group: the vendor authenticates upstream, not with a platform
// session, and the handler must acknowledge everything it receives.
func (h *Controller) Register(e *echo.Echo, sessionMW echo.MiddlewareFunc) {
	e.POST("/v1/mail/vendors/mailgun/webhooks", h.mailgunWebhook)

	g := e.Group("/v1/mail", sessionMW)
	g.POST("/send", h.sendMail)
	g.GET("/sent", h.getSentMail)
	g.GET("/sent/:emailId", h.getSentMailSingle)
	g.GET("/templates", h.listTemplates)
	g.POST("/templates", h.createTemplate)
	g.GET("/templates/:templateId", h.getTemplate)
	g.PUT("/templates/:templateId", h.updateTemplate)
	g.DELETE("/templates/:templateId", h.deleteTemplate)
	g.GET("/stats/sends", h.getSendStats)
	g.GET("/settings/:settingKey", h.getSetting)
	g.PUT("/settings", h.updateSettings)
}

func accountID(c echo.Context) (uuid.UUID, bool) {
	return session.AccountID(c)
}

func toUUIDString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func toDateString(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.UTC().Format("2006-01-02")
}

func toTimeString(t pgtype.Timestamptz) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}

// mapError translates domain errors into HTTP responses.
func mapError(c echo.Context, err error) error {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Msg})
	case errors.Is(err, domain.ErrMailSendNotFound), errors.Is(err, domain.ErrTemplateNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrTemplateExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrVendorSendFailed):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		log.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("mail request failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

type sendMailReq struct {
	To         string            `json:"to"`
	From       string            `json:"from"`
	Subject    string            `json:"subject"`
	TemplateID string            `json:"templateId"`
	Text       string            `json:"text"`
	HTML       string            `json:"html"`
	Context    map[string]any    `json:"context"`
	Headers    map[string]string `json:"headers"`
}

type sendMailResp struct {
	EmailID string `json:"emailId"`
}

// Send Mail godoc
// @Summary      Send an email
// @Description  Dispatches an email through the mail vendor and records it in the send ledger
// @Tags         mail
// @Accept       json
// @Produce      json
// @Param        body  body  sendMailReq  true  "send request"
// @Success      200   {object}  sendMailResp
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/mail/send [post]
func (h *Controller) sendMail(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	var req sendMailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}

	emailID, err := h.svc.SendMail(c.Request().Context(), acc, domain.SendRequest{
		To:         req.To,
		From:       req.From,
		Subject:    req.Subject,
		TemplateID: req.TemplateID,
		Text:       req.Text,
		HTML:       req.HTML,
		Context:    req.Context,
		Headers:    req.Headers,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, sendMailResp{EmailID: emailID.String()})
}

type sentMailRow struct {
	EmailID        string `json:"emailId"`
	Status         string `json:"status"`
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Date           string `json:"date"`
	CreatedAt      string `json:"createdAt"`
}

type sentMailListResp struct {
	Count int64         `json:"count"`
	Rows  []sentMailRow `json:"rows"`
}

// List Sent Mail godoc
// @Summary      List sent mail
// @Description  Lists the tenant's send-ledger rows within a date range
// @Tags         mail
// @Produce      json
// @Param        from    query  string  false  "start date (2006-01-02), default 7 days ago"
// @Param        to      query  string  false  "end date (2006-01-02), default today"
// @Param        offset  query  int     false  "pagination offset"
// @Param        limit   query  int     false  "page size, default 25"
// @Success      200  {object}  sentMailListResp
// @Router       /v1/mail/sent [get]
func (h *Controller) getSentMail(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}

	opts := domain.ListOptions{
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	res, err := h.svc.GetMailSends(c.Request().Context(), acc, opts)
	if err != nil {
		return mapError(c, err)
	}
	rows := make([]sentMailRow, 0, len(res.Items))
	for _, m := range res.Items {
		rows = append(rows, sentMailRow{
			EmailID:        toUUIDString(m.EmailID),
			Status:         m.Status,
			RecipientEmail: m.ToAddress,
			Subject:        m.Subject,
			Date:           toDateString(m.Date),
			CreatedAt:      toTimeString(m.CreatedAt),
		})
	}
	return c.JSON(http.StatusOK, sentMailListResp{Count: res.Count, Rows: rows})
}

// sentMailResp is the single-send shape: the full ledger row minus the
// vendor's message id, which never leaves this system.
type sentMailResp struct {
	EmailID         string `json:"emailId"`
	AccountID       string `json:"accountId"`
	To              string `json:"to"`
	From            string `json:"from"`
	Subject         string `json:"subject"`
	Status          string `json:"status"`
	DeliveryDetails string `json:"deliveryDetails,omitempty"`
	Date            string `json:"date"`
	CreatedAt       string `json:"createdAt"`
}

func toSentMailResp(m db.MailSend) sentMailResp {
	return sentMailResp{
		EmailID:         toUUIDString(m.EmailID),
		AccountID:       toUUIDString(m.AccountID),
		To:              m.ToAddress,
		From:            m.FromAddress,
		Subject:         m.Subject,
		Status:          m.Status,
		DeliveryDetails: m.DeliveryDetails.String,
		Date:            toDateString(m.Date),
		CreatedAt:       toTimeString(m.CreatedAt),
	}
}

// Get Sent Mail godoc
// @Summary      Get a single sent mail
// @Tags         mail
// @Produce      json
// @Param        emailId  path  string  true  "Email ID (UUID)"
// @Success      200  {object}  sentMailResp
// @Failure      404  {object}  map[string]string
// @Router       /v1/mail/sent/{emailId} [get]
func (h *Controller) getSentMailSingle(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	emailID, err := uuid.Parse(c.Param("emailId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid email id"})
	}
	m, err := h.svc.GetMailSend(c.Request().Context(), acc, emailID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSentMailResp(m))
}

type templateReq struct {
	TemplateID   string         `json:"templateId" validate:"required"`
	TemplateName string         `json:"templateName"`
	Subject      string         `json:"subject" validate:"required"`
	Template     string         `json:"template" validate:"required"`
	Context      map[string]any `json:"context"`
}

type templateResp struct {
	TemplateID   string         `json:"templateId"`
	TemplateName string         `json:"templateName"`
	Subject      string         `json:"subject"`
	Template     string         `json:"template"`
	Context      map[string]any `json:"context,omitempty"`
	CreatedAt    string         `json:"createdAt,omitempty"`
	UpdatedAt    string         `json:"updatedAt,omitempty"`
}

func toTemplateResp(t db.MailTemplate) templateResp {
	resp := templateResp{
		TemplateID:   t.TemplateID,
		TemplateName: t.TemplateName,
		Subject:      t.Subject,
		Template:     t.Template,
		CreatedAt:    toTimeString(t.CreatedAt),
		UpdatedAt:    toTimeString(t.UpdatedAt),
	}
	if len(t.Context) > 0 {
		// stored as jsonb; best-effort decode for the response shape
		_ = json.Unmarshal(t.Context, &resp.Context)
	}
	return resp
}

// Create Template godoc
// @Summary      Create a mail template
// @Tags         mail
// @Accept       json
// @Produce      json
// @Param        body  body  templateReq  true  "template"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/mail/templates [post]
func (h *Controller) createTemplate(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}
	err := h.svc.CreateTemplate(c.Request().Context(), acc, domain.TemplateInput{
		TemplateID:   req.TemplateID,
		TemplateName: req.TemplateName,
		Subject:      req.Subject,
		Template:     req.Template,
		Context:      req.Context,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"templateId": req.TemplateID})
}

// List Templates godoc
// @Summary      List mail templates
// @Tags         mail
// @Produce      json
// @Param        offset  query  int  false  "pagination offset"
// @Param        limit   query  int  false  "page size, default 25"
// @Success      200  {array}  templateResp
// @Router       /v1/mail/templates [get]
func (h *Controller) listTemplates(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	offset, limit := 0, 25
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	items, err := h.svc.ListTemplates(c.Request().Context(), acc, offset, limit)
	if err != nil {
		return mapError(c, err)
	}
	resp := make([]templateResp, 0, len(items))
	for _, t := range items {
		resp = append(resp, toTemplateResp(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get Template godoc
// @Summary      Get a mail template
// @Tags         mail
// @Produce      json
// @Param        templateId  path  string  true  "Template ID"
// @Success      200  {object}  templateResp
// @Failure      404  {object}  map[string]string
// @Router       /v1/mail/templates/{templateId} [get]
func (h *Controller) getTemplate(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	templateID := c.Param("templateId")
	if templateID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "template id required"})
	}
	t, err := h.svc.GetTemplate(c.Request().Context(), acc, templateID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toTemplateResp(t))
}

// Update Template godoc
// @Summary      Update a mail template
// @Tags         mail
// @Accept       json
// @Produce      json
// @Param        templateId  path  string  true  "Template ID"
// @Param        body  body  templateReq  true  "template"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/mail/templates/{templateId} [put]
func (h *Controller) updateTemplate(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	templateID := c.Param("templateId")
	if templateID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "template id required"})
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	err := h.svc.UpdateTemplate(c.Request().Context(), acc, domain.TemplateInput{
		TemplateID:   templateID,
		TemplateName: req.TemplateName,
		Subject:      req.Subject,
		Template:     req.Template,
		Context:      req.Context,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"templateId": templateID})
}

// Delete Template godoc
// @Summary      Delete a mail template
// @Tags         mail
// @Param        templateId  path  string  true  "Template ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/mail/templates/{templateId} [delete]
func (h *Controller) deleteTemplate(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	templateID := c.Param("templateId")
	if templateID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "template id required"})
	}
	if err := h.svc.DeleteTemplate(c.Request().Context(), acc, templateID); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{})
}

// Get Send Stats godoc
// @Summary      Get daily send stats
// @Description  Returns a dense daily series of [date, count] pairs for one delivery event
// @Tags         mail
// @Produce      json
// @Param        from   query  string  false  "start date, default 8 days ago"
// @Param        to     query  string  false  "end date, default yesterday"
// @Param        event  query  string  false  "delivery event, default delivered"
// @Success      200  {array}  domain.StatPoint
// @Router       /v1/mail/stats/sends [get]
func (h *Controller) getSendStats(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	series, err := h.svc.GetSendsStats(c.Request().Context(), acc,
		c.QueryParam("event"), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

// Get Mail Setting godoc
// @Summary      Get one mail setting
// @Tags         mail
// @Produce      json
// @Param        settingKey  path  string  true  "setting key"
// @Success      200  {object}  map[string]string
// @Router       /v1/mail/settings/{settingKey} [get]
func (h *Controller) getSetting(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	key := c.Param("settingKey")
	if key == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "setting key required"})
	}
	value, err := h.settings.GetString(c.Request().Context(), key, &acc, "")
	if err != nil {
		return mapError(c, err)
	}
	if value != "" && sdomain.Secret(key) {
		value = "********"
	}
	return c.JSON(http.StatusOK, map[string]string{"value": value})
}

type settingUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Update Mail Settings godoc
// @Summary      Update mail settings
// @Tags         mail
// @Accept       json
// @Success      200  {object}  map[string]string
// @Router       /v1/mail/settings [put]
func (h *Controller) updateSettings(c echo.Context) error {
	acc, ok := accountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account required"})
	}
	var updates []settingUpdate
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
	}
	for _, u := range updates {
		if u.Key == "" || u.Value == "" {
			continue
		}
		if err := h.settings.Set(c.Request().Context(), u.Key, &acc, u.Value); err != nil {
			return mapError(c, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{})
}

// Mailgun Webhook godoc
// @Summary      Vendor delivery webhook
// @Description  Reconciles a vendor delivery event onto the send ledger; always acknowledges
// @Tags         mail
// @Accept       json
// @Success      200  {object}  map[string]string
// @Router       /v1/mail/vendors/mailgun/webhooks [post]
func (h *Controller) mailgunWebhook(c echo.Context) error {
	var env domain.WebhookEnvelope
	if err := c.Bind(&env); err != nil {
		// Unparseable payloads are acknowledged too; a non-200 would only
		// trigger vendor-side retry storms for an event we can never apply.
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("unparseable webhook payload")
		return c.JSON(http.StatusOK, map[string]string{})
	}
	if err := h.svc.ApplyDeliveryEvent(c.Request().Context(), env); err != nil {
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("webhook reconciliation failed")
	}
	return c.JSON(http.StatusOK, map[string]string{})
}
