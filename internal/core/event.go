package core

import (
	"time"

	"github.com/google/uuid"
)

// OrderPaidEvent is published after an order transitions to paid so
// downstream consumers (confirmation mail, commission accrual) can react
// without being part of the webhook request path.
type OrderPaidEvent struct {
	OrderID           uuid.UUID `json:"order_id"`
	PaymentRef        string    `json:"payment_ref"`
	BankTransactionID string    `json:"bank_transaction_id"`
	Amount            int64     `json:"amount"`
	OccurredAt        time.Time `json:"occurred_at"`
}
