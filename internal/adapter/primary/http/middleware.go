package http

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/goshop/storefront/internal/core"
	"github.com/goshop/storefront/internal/port/output"
	"github.com/sirupsen/logrus"
)

// auditIDKey is the echo context key under which CaptureAudit stashes the
// persisted audit record id for later annotation by the handler.
const auditIDKey = "webhook_audit_id"

// CaptureAudit persists the raw inbound call before any processing
// decision, auth included, so rejected and failed calls remain
// forensically recoverable. Write failures are logged, never fatal.
func CaptureAudit(audits output.WebhookAuditLog, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var body []byte
			if c.Request().Body != nil {
				body, _ = io.ReadAll(c.Request().Body)
				c.Request().Body = io.NopCloser(bytes.NewReader(body))
			}
			headers, _ := json.Marshal(c.Request().Header)

			audit := &core.WebhookAudit{
				ReceivedAt: time.Now().UTC(),
				Headers:    string(headers),
				RawBody:    string(body),
			}
			if err := audits.Record(c.Request().Context(), audit); err != nil {
				log.WithError(err).Error("webhook audit write failed")
			} else {
				c.Set(auditIDKey, audit.ID)
			}
			return next(c)
		}
	}
}

// RequireWebhookSecret validates the shared-secret header the bank sends
// on every call. The comparison is constant time; mismatch or absence
// stops processing before normalization.
func RequireWebhookSecret(header, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(header)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid credentials",
				})
			}
			return next(c)
		}
	}
}
