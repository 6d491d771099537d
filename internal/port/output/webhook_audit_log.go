package output

import (
	"context"

	"github.com/google/uuid"
	"github.com/goshop/storefront/internal/core"
)

// WebhookAuditLog is an output port (secondary port) for the append-only
// audit trail of inbound webhook calls
type WebhookAuditLog interface {
	// Record persists the raw capture of one inbound call and fills in
	// the generated audit id. Must be called before any processing
	// decision is made.
	Record(ctx context.Context, audit *core.WebhookAudit) error

	// Annotate attaches the processing decision to an existing audit
	// record once. The raw capture columns are never touched.
	Annotate(ctx context.Context, id uuid.UUID, result *core.ReconcileResult) error
}
