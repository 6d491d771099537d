package output

import (
	"context"
	"time"
)

// VerificationCodeStore is an output port (secondary port) for short-lived
// verification codes. Entries expire on their own after the given TTL so
// the store stays correct across multiple process instances.
type VerificationCodeStore interface {
	// Put stores a code for a subject with a per-entry expiry
	Put(ctx context.Context, subject, code string, ttl time.Duration) error
	// Get returns the stored code for a subject; ok is false when the
	// entry is absent or expired
	Get(ctx context.Context, subject string) (code string, ok bool, err error)
	// Delete removes a subject's code, used to make codes single-use
	Delete(ctx context.Context, subject string) error
}
