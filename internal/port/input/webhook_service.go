package input

import (
	"context"

	"github.com/goshop/storefront/internal/core"
)

// WebhookService is an input port (primary port) for payment-notification
// reconciliation. Primary adapters (HTTP handlers) will use this
type WebhookService interface {
	// HandleNotification processes one raw bank notification body and
	// returns the reconciliation decision. An error is returned only
	// for unparseable payloads and infrastructure failures; every
	// handled-but-unmatched case is a non-error outcome.
	HandleNotification(ctx context.Context, raw []byte) (*core.ReconcileResult, error)

	// Simulate synthesizes a minimal flat-shape notification for the
	// given reference and amount and runs it through the same path.
	// Operator tooling, not production traffic.
	Simulate(ctx context.Context, ref string, amount int64) (*core.ReconcileResult, error)
}

// VerificationService is an input port (primary port) for short-lived
// verification codes backing account flows
type VerificationService interface {
	// IssueCode generates and stores a single-use code for a subject
	IssueCode(ctx context.Context, subject string) (string, error)
	// VerifyCode checks a code and consumes it on success
	VerifyCode(ctx context.Context, subject, code string) (bool, error)
}
