package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goshop/storefront/internal/constant/model/db"
	"github.com/goshop/storefront/internal/core"
	"github.com/goshop/storefront/internal/port/output"
	"gorm.io/gorm"
)

// GormOrderRepository is a secondary adapter that implements the
// OrderRepository output port
type GormOrderRepository struct {
	gormDB *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(gormDB *gorm.DB) output.OrderRepository {
	return &GormOrderRepository{gormDB: gormDB}
}

// toCore converts db.Order to core.Order
func toCore(o *db.Order) *core.Order {
	bankTxID := ""
	if o.BankTransactionID != nil {
		bankTxID = *o.BankTransactionID
	}
	return &core.Order{
		ID:                o.ID,
		PaymentRef:        o.PaymentRef,
		PaymentStatus:     core.PaymentStatus(o.PaymentStatus),
		Status:            core.OrderStatus(o.Status),
		BankTransactionID: bankTxID,
		TotalAmount:       o.TotalAmount,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ListPendingByPaymentRef returns every pending order carrying the reference
func (r *GormOrderRepository) ListPendingByPaymentRef(ctx context.Context, ref string) ([]*core.Order, error) {
	var rows []db.Order
	if err := r.gormDB.WithContext(ctx).
		Where("payment_ref = ? AND payment_status = ?", ref, db.PaymentStatusPending).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	orders := make([]*core.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, toCore(&rows[i]))
	}
	return orders, nil
}

// FindByRefAndTransaction returns the order already credited by the given
// bank transaction, nil when none exists
func (r *GormOrderRepository) FindByRefAndTransaction(ctx context.Context, ref, bankTransactionID string) (*core.Order, error) {
	var row db.Order
	err := r.gormDB.WithContext(ctx).
		Where("payment_ref = ? AND bank_transaction_id = ?", ref, bankTransactionID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order by transaction: %w", err)
	}
	return toCore(&row), nil
}

// GetByID retrieves an order by its ID, nil when not found
func (r *GormOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*core.Order, error) {
	var row db.Order
	err := r.gormDB.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return toCore(&row), nil
}

// MarkPaid transitions an order to paid with a single conditional UPDATE.
// The payment_status guard makes the transition atomic across process
// instances: under concurrent duplicate deliveries exactly one write
// affects a row, the others observe RowsAffected == 0.
func (r *GormOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, bankTransactionID string) (bool, error) {
	result := r.gormDB.WithContext(ctx).Model(&db.Order{}).
		Where("id = ? AND payment_status = ?", id, db.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status":      db.PaymentStatusPaid,
			"status":              db.OrderStatusConfirmed,
			"bank_transaction_id": bankTransactionID,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark order paid: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
