package core

import (
	"time"

	"github.com/google/uuid"
)

// WebhookAudit is the raw capture of one inbound webhook call, written
// before any processing decision and never mutated afterwards.
type WebhookAudit struct {
	ID         uuid.UUID
	ReceivedAt time.Time
	// Headers is the JSON-encoded request header map.
	Headers string
	RawBody string
}
