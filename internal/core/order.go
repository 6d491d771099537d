package core

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// OrderStatus represents the order lifecycle state, correlated with but
// distinct from the payment state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order represents an order domain entity. Orders are created by the
// order-management subsystem; this core only reads them and transitions
// pending orders to paid when a matching bank transfer arrives.
type Order struct {
	ID uuid.UUID
	// PaymentRef is the short code the payer copies into the bank
	// transfer description. Unique among pending orders by upstream
	// convention only.
	PaymentRef    string
	PaymentStatus PaymentStatus
	Status        OrderStatus
	// BankTransactionID is the bank-assigned id of the transfer that
	// moved this order to paid. Empty until the first successful match;
	// doubles as the idempotency key for redeliveries.
	BankTransactionID string
	// TotalAmount is the expected payment amount in whole currency units.
	TotalAmount int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAwaitingPayment checks if the order is still waiting for a transfer
func (o *Order) IsAwaitingPayment() bool {
	return o.PaymentStatus == PaymentStatusPending
}

// PaidBy checks whether this order was already credited by the given
// bank transaction
func (o *Order) PaidBy(bankTransactionID string) bool {
	return o.PaymentStatus == PaymentStatusPaid && o.BankTransactionID == bankTransactionID
}
