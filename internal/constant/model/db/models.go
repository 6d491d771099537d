package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// OrderStatus represents the order lifecycle state
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order represents an order row. The table is shared with the
// order-management subsystem; this service only reads it and applies the
// pending-to-paid transition.
type Order struct {
	ID                uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	PaymentRef        string        `gorm:"type:varchar(16);not null;index" json:"payment_ref"`
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	Status            OrderStatus   `gorm:"type:varchar(20);not null" json:"status"`
	BankTransactionID *string       `gorm:"type:varchar(64);index" json:"bank_transaction_id"`
	TotalAmount       int64         `gorm:"not null" json:"total_amount"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	return nil
}

// WebhookAudit represents one inbound webhook call. Rows are append-only:
// the raw capture columns are written once, the outcome columns are filled
// in by a single annotation after processing.
type WebhookAudit struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ReceivedAt     time.Time  `gorm:"not null;index" json:"received_at"`
	Headers        string     `gorm:"type:text" json:"headers"`
	RawBody        string     `gorm:"type:text" json:"raw_body"`
	Outcome        *string    `gorm:"type:varchar(32)" json:"outcome"`
	TransactionID  *string    `gorm:"type:varchar(64)" json:"transaction_id"`
	ReferenceCode  *string    `gorm:"type:varchar(16)" json:"reference_code"`
	OrderID        *uuid.UUID `gorm:"type:uuid" json:"order_id"`
	AmountMismatch bool       `gorm:"not null;default:false" json:"amount_mismatch"`
}

// TableName specifies the table name for GORM
func (WebhookAudit) TableName() string {
	return "webhook_audits"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (a *WebhookAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ReceivedAt.IsZero() {
		a.ReceivedAt = time.Now()
	}
	return nil
}
