package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/goshop/storefront/internal/port/input"
)

// VerificationHandler is a primary adapter (HTTP handler) for short-lived
// verification codes backing account flows
type VerificationHandler struct {
	verificationService input.VerificationService
}

// NewVerificationHandler creates a new verification-code handler
func NewVerificationHandler(verificationService input.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// IssueCodeRequest represents the HTTP request to issue a code
type IssueCodeRequest struct {
	Subject string `json:"subject" validate:"required"`
}

// IssueCodeResponse carries the issued code back to the storefront, which
// owns delivering it to the user
type IssueCodeResponse struct {
	Code string `json:"code"`
}

// IssueCode handles POST /api/v1/verification-codes
func (h *VerificationHandler) IssueCode(c echo.Context) error {
	var req IssueCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	code, err := h.verificationService.IssueCode(c.Request().Context(), req.Subject)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to issue verification code",
		})
	}
	return c.JSON(http.StatusCreated, IssueCodeResponse{Code: code})
}

// VerifyCodeRequest represents the HTTP request to verify a code
type VerifyCodeRequest struct {
	Subject string `json:"subject" validate:"required"`
	Code    string `json:"code" validate:"required"`
}

// VerifyCodeResponse reports whether the code was valid
type VerifyCodeResponse struct {
	Valid bool `json:"valid"`
}

// VerifyCode handles POST /api/v1/verification-codes/verify
func (h *VerificationHandler) VerifyCode(c echo.Context) error {
	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	valid, err := h.verificationService.VerifyCode(c.Request().Context(), req.Subject, req.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to verify code",
		})
	}
	return c.JSON(http.StatusOK, VerifyCodeResponse{Valid: valid})
}
