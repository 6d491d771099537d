package output

import (
	"context"

	"github.com/google/uuid"
	"github.com/goshop/storefront/internal/core"
)

// OrderRepository is an output port (secondary port) for order data access
// Secondary adapters (database implementations) will implement this
type OrderRepository interface {
	// ListPendingByPaymentRef returns every pending order carrying the
	// given payment reference code. More than one entry means the
	// upstream uniqueness convention was violated.
	ListPendingByPaymentRef(ctx context.Context, ref string) ([]*core.Order, error)

	// FindByRefAndTransaction returns the order carrying the given
	// payment reference and bank transaction id, or nil when none
	// exists. Used to classify redeliveries of already-credited
	// transactions.
	FindByRefAndTransaction(ctx context.Context, ref, bankTransactionID string) (*core.Order, error)

	// GetByID retrieves an order by its ID, nil when not found
	GetByID(ctx context.Context, id uuid.UUID) (*core.Order, error)

	// MarkPaid transitions the order to paid with a single conditional
	// write guarded by payment_status = PENDING. Returns false when the
	// precondition did not hold at write time; correctness under
	// concurrent duplicate deliveries relies on this, not on locks.
	MarkPaid(ctx context.Context, id uuid.UUID, bankTransactionID string) (bool, error)
}
