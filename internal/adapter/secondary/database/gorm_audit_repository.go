package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/goshop/storefront/internal/constant/model/db"
	"github.com/goshop/storefront/internal/core"
	"github.com/goshop/storefront/internal/port/output"
	"gorm.io/gorm"
)

// GormWebhookAuditLog is a secondary adapter that implements the
// WebhookAuditLog output port
type GormWebhookAuditLog struct {
	gormDB *gorm.DB
}

// NewGormWebhookAuditLog creates a new GORM webhook audit log
func NewGormWebhookAuditLog(gormDB *gorm.DB) output.WebhookAuditLog {
	return &GormWebhookAuditLog{gormDB: gormDB}
}

// Record persists the raw capture of one inbound call
func (r *GormWebhookAuditLog) Record(ctx context.Context, audit *core.WebhookAudit) error {
	row := &db.WebhookAudit{
		ReceivedAt: audit.ReceivedAt,
		Headers:    audit.Headers,
		RawBody:    audit.RawBody,
	}
	if err := r.gormDB.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to record webhook audit: %w", err)
	}
	audit.ID = row.ID
	return nil
}

// Annotate fills in the decision columns of an audit record. The guard on
// outcome IS NULL keeps annotation single-shot; the raw capture columns
// are never part of the update.
func (r *GormWebhookAuditLog) Annotate(ctx context.Context, id uuid.UUID, result *core.ReconcileResult) error {
	outcome := string(result.Outcome)
	updates := map[string]interface{}{
		"outcome":         &outcome,
		"amount_mismatch": result.AmountMismatch,
	}
	if result.TransactionID != "" {
		updates["transaction_id"] = &result.TransactionID
	}
	if result.ReferenceCode != "" {
		updates["reference_code"] = &result.ReferenceCode
	}
	if result.OrderID != uuid.Nil {
		updates["order_id"] = &result.OrderID
	}
	if err := r.gormDB.WithContext(ctx).Model(&db.WebhookAudit{}).
		Where("id = ? AND outcome IS NULL", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to annotate webhook audit: %w", err)
	}
	return nil
}
