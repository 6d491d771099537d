package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goshop/storefront/internal/core"
	"github.com/goshop/storefront/internal/port/input"
	"github.com/goshop/storefront/internal/port/output"
	"github.com/sirupsen/logrus"
)

// WebhookConfig carries reconciliation policy knobs
type WebhookConfig struct {
	// AmountMismatchBlock holds the order back for manual reconciliation
	// when the transfer amount differs from the order total. Default is
	// warn-and-credit; operators reconcile mismatches by hand.
	AmountMismatchBlock bool
}

// WebhookServiceImpl implements the WebhookService input port
type WebhookServiceImpl struct {
	orders     output.OrderRepository
	events     output.OrderEventPublisher
	normalizer Normalizer
	cfg        WebhookConfig
	log        *logrus.Logger
}

// NewWebhookService creates a new webhook reconciliation service
func NewWebhookService(
	orders output.OrderRepository,
	events output.OrderEventPublisher,
	cfg WebhookConfig,
	log *logrus.Logger,
) input.WebhookService {
	return &WebhookServiceImpl{
		orders: orders,
		events: events,
		cfg:    cfg,
		log:    log,
	}
}

// HandleNotification processes one raw bank notification:
// normalize -> extract reference -> match order -> idempotent transition.
// Every handled-but-unmatched case is a non-error outcome so the bank is
// acknowledged and does not retry human mistakes; errors are reserved for
// unparseable bodies and infrastructure failures, which are retryable.
func (s *WebhookServiceImpl) HandleNotification(ctx context.Context, raw []byte) (*core.ReconcileResult, error) {
	tx, status, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}
	switch status {
	case NormalizeNoTransaction:
		return &core.ReconcileResult{Outcome: core.OutcomeNoTransaction}, nil
	case NormalizeIgnoredStatus:
		s.log.Debug("notification carried no completed transaction; ignoring")
		return &core.ReconcileResult{Outcome: core.OutcomeIgnoredStatus}, nil
	}

	result := &core.ReconcileResult{TransactionID: tx.ID}

	ref, ok := ExtractReference(tx.Description)
	if !ok {
		result.Outcome = core.OutcomeNoReference
		s.log.WithFields(logrus.Fields{
			"transaction_id": tx.ID,
			"description":    tx.Description,
		}).Warn("no order reference in transfer description")
		return result, nil
	}
	result.ReferenceCode = ref

	pending, err := s.orders.ListPendingByPaymentRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to match orders for %s: %w", ref, err)
	}

	switch {
	case len(pending) > 1:
		// Uniqueness of the reference among pending orders is an
		// upstream convention. When it breaks we refuse to guess.
		for _, o := range pending {
			result.CandidateOrderIDs = append(result.CandidateOrderIDs, o.ID)
		}
		result.Outcome = core.OutcomeAmbiguousMatch
		s.log.WithFields(logrus.Fields{
			"reference_code": ref,
			"transaction_id": tx.ID,
			"candidates":     result.CandidateOrderIDs,
		}).Error("multiple pending orders share a payment reference; manual reconciliation required")
		return result, nil

	case len(pending) == 0:
		// A redelivery after success finds no pending order, so look
		// for one already credited by this exact transaction.
		prior, err := s.orders.FindByRefAndTransaction(ctx, ref, tx.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check prior transaction %s: %w", tx.ID, err)
		}
		if prior != nil && prior.PaidBy(tx.ID) {
			result.Outcome = core.OutcomeAlreadyProcessed
			result.OrderID = prior.ID
			return result, nil
		}
		result.Outcome = core.OutcomeOrderNotFound
		s.log.WithFields(logrus.Fields{
			"reference_code": ref,
			"transaction_id": tx.ID,
		}).Warn("no pending order for extracted reference")
		return result, nil
	}

	order := pending[0]
	result.OrderID = order.ID

	if tx.Amount != order.TotalAmount {
		result.AmountMismatch = true
		s.log.WithFields(logrus.Fields{
			"order_id":        order.ID,
			"expected_amount": order.TotalAmount,
			"paid_amount":     tx.Amount,
			"transaction_id":  tx.ID,
		}).Warn("transfer amount differs from order total")
		if s.cfg.AmountMismatchBlock {
			result.Outcome = core.OutcomeAmountMismatchHeld
			return result, nil
		}
	}

	// Idempotent redelivery of the transaction that already credited
	// this order.
	if order.BankTransactionID == tx.ID {
		result.Outcome = core.OutcomeAlreadyProcessed
		return result, nil
	}

	updated, err := s.orders.MarkPaid(ctx, order.ID, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", order.ID, err)
	}
	if !updated {
		// Lost the race against a concurrent delivery. Re-read rather
		// than assume: the winner may have carried a different
		// transaction id.
		current, err := s.orders.GetByID(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read order %s: %w", order.ID, err)
		}
		if current != nil && current.PaymentStatus == core.PaymentStatusPaid {
			result.Outcome = core.OutcomeAlreadyProcessed
			return result, nil
		}
		result.Outcome = core.OutcomeOrderNotFound
		s.log.WithFields(logrus.Fields{
			"order_id":       order.ID,
			"transaction_id": tx.ID,
		}).Warn("order left pending state before credit could apply")
		return result, nil
	}

	result.Outcome = core.OutcomeCredited
	s.log.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"reference_code": ref,
		"transaction_id": tx.ID,
		"amount":         tx.Amount,
	}).Info("order credited")

	s.publishPaid(ctx, order, tx)
	return result, nil
}

// publishPaid emits the order-paid event. Publishing never blocks the
// webhook response; a lost event is recoverable from the audit trail.
func (s *WebhookServiceImpl) publishPaid(ctx context.Context, order *core.Order, tx *core.BankTransaction) {
	if s.events == nil {
		return
	}
	event := core.OrderPaidEvent{
		OrderID:           order.ID,
		PaymentRef:        order.PaymentRef,
		BankTransactionID: tx.ID,
		Amount:            tx.Amount,
		OccurredAt:        time.Now().UTC(),
	}
	if err := s.events.PublishOrderPaid(ctx, event); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).
			Warn("order credited but paid event not published")
	}
}

// Simulate synthesizes a minimal flat-shape notification and re-invokes
// the reconciliation path with it
func (s *WebhookServiceImpl) Simulate(ctx context.Context, ref string, amount int64) (*core.ReconcileResult, error) {
	payload := map[string]interface{}{
		"tranId":          "SIM-" + uuid.NewString(),
		"tranAmount":      amount,
		"tranContent":     "SIMULATED TRANSFER " + ref,
		"transactionDate": time.Now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build simulated notification: %w", err)
	}
	return s.HandleNotification(ctx, raw)
}
