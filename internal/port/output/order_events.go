package output

import (
	"context"

	"github.com/goshop/storefront/internal/core"
)

// OrderEventPublisher is an output port (secondary port) for order events
// Secondary adapters (RabbitMQ implementations) will implement this
type OrderEventPublisher interface {
	// PublishOrderPaid publishes an order-paid event
	PublishOrderPaid(ctx context.Context, event core.OrderPaidEvent) error
	// Close closes the messaging connection
	Close() error
}
