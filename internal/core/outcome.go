package core

import "github.com/google/uuid"

// Outcome classifies how a webhook notification was resolved
type Outcome string

const (
	// OutcomeCredited means a pending order was transitioned to paid.
	OutcomeCredited Outcome = "CREDITED"
	// OutcomeAlreadyProcessed means the notification is a redelivery of
	// a transaction that already credited its order.
	OutcomeAlreadyProcessed Outcome = "ALREADY_PROCESSED"
	// OutcomeNoTransaction means no transaction was resolvable from the
	// payload, e.g. a heartbeat call from the bank.
	OutcomeNoTransaction Outcome = "NO_TRANSACTION"
	// OutcomeIgnoredStatus means the payload carried transactions but
	// none with the completed status.
	OutcomeIgnoredStatus Outcome = "IGNORED_STATUS"
	// OutcomeNoReference means no order reference code was found in the
	// transfer description.
	OutcomeNoReference Outcome = "NO_REFERENCE"
	// OutcomeOrderNotFound means a code was extracted but no pending
	// order carries it.
	OutcomeOrderNotFound Outcome = "ORDER_NOT_FOUND"
	// OutcomeAmbiguousMatch means several pending orders share the code;
	// nothing is mutated and manual reconciliation is required.
	OutcomeAmbiguousMatch Outcome = "AMBIGUOUS_MATCH"
	// OutcomeAmountMismatchHeld means the transfer matched an order but
	// the amount differed and policy blocks crediting.
	OutcomeAmountMismatchHeld Outcome = "AMOUNT_MISMATCH_HELD"
)

// ReconcileResult captures the full decision for one notification so it
// can be audited and replayed offline.
type ReconcileResult struct {
	Outcome           Outcome
	TransactionID     string
	ReferenceCode     string
	OrderID           uuid.UUID
	AmountMismatch    bool
	CandidateOrderIDs []uuid.UUID
}

// Mutated reports whether processing this notification changed an order
func (r *ReconcileResult) Mutated() bool {
	return r.Outcome == OutcomeCredited
}
