package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/goshop/storefront/internal/core"
	"github.com/goshop/storefront/internal/core/service"
	"github.com/goshop/storefront/internal/port/input"
	"github.com/goshop/storefront/internal/port/output"
	"github.com/sirupsen/logrus"
)

// WebhookHandler is a primary adapter (HTTP handler) for the bank's
// payment-notification webhook
type WebhookHandler struct {
	webhookService input.WebhookService
	audits         output.WebhookAuditLog
	log            *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService input.WebhookService, audits output.WebhookAuditLog, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		audits:         audits,
		log:            log,
	}
}

// WebhookResponse represents the HTTP response for a processed notification
type WebhookResponse struct {
	Outcome        string `json:"outcome"`
	TransactionID  string `json:"transaction_id,omitempty"`
	ReferenceCode  string `json:"reference_code,omitempty"`
	OrderID        string `json:"order_id,omitempty"`
	AmountMismatch bool   `json:"amount_mismatch,omitempty"`
}

func toResponse(result *core.ReconcileResult) WebhookResponse {
	resp := WebhookResponse{
		Outcome:        string(result.Outcome),
		TransactionID:  result.TransactionID,
		ReferenceCode:  result.ReferenceCode,
		AmountMismatch: result.AmountMismatch,
	}
	if result.OrderID != uuid.Nil {
		resp.OrderID = result.OrderID.String()
	}
	return resp
}

// HandleNotification handles POST /payment-webhook. Every logically
// handled notification returns 200 so the bank does not retry human
// errors; only unparseable bodies (400) and infrastructure failures (500)
// are non-2xx.
func (h *WebhookHandler) HandleNotification(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "unreadable request body",
		})
	}

	result, err := h.webhookService.HandleNotification(c.Request().Context(), raw)
	if err != nil {
		if errors.Is(err, service.ErrUnrecognizedPayload) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "unrecognized payload",
			})
		}
		h.log.WithError(err).Error("webhook processing failed")
		// Non-2xx makes the bank retry, which is the recovery path for
		// transient persistence failures.
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "processing failed, retry later",
		})
	}

	h.annotateAudit(c, result)
	return c.JSON(http.StatusOK, toResponse(result))
}

// SimulateRequest represents the operator-facing simulation parameters
type SimulateRequest struct {
	Ref    string `query:"ref" validate:"required,alphanum"`
	Amount int64  `query:"amount" validate:"required,gt=0"`
}

// Simulate handles GET /payment-webhook/simulate. It synthesizes a flat
// notification for the given reference and amount and re-invokes the
// webhook path internally.
func (h *WebhookHandler) Simulate(c echo.Context) error {
	var req SimulateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid query parameters",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.webhookService.Simulate(c.Request().Context(), strings.ToUpper(req.Ref), req.Amount)
	if err != nil {
		h.log.WithError(err).Error("webhook simulation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "simulation failed",
		})
	}

	h.annotateAudit(c, result)
	return c.JSON(http.StatusOK, toResponse(result))
}

// annotateAudit attaches the decision to the audit record written by
// CaptureAudit, best-effort
func (h *WebhookHandler) annotateAudit(c echo.Context, result *core.ReconcileResult) {
	id, ok := c.Get(auditIDKey).(uuid.UUID)
	if !ok {
		return
	}
	if err := h.audits.Annotate(c.Request().Context(), id, result); err != nil {
		h.log.WithError(err).WithField("audit_id", id).Warn("audit annotation failed")
	}
}
