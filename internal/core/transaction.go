package core

// TransactionStatusCompleted is the settled-transaction status the bank
// reports in batch notifications. Entries with any other status are not
// eligible for reconciliation.
const TransactionStatusCompleted = "COMPLETED"

// BankTransaction is the canonical transaction record every recognized
// payload shape normalizes to.
type BankTransaction struct {
	// ID is the bank-assigned transaction identifier.
	ID string
	// Amount is the transferred amount in whole currency units.
	Amount int64
	// Description is the free-text transfer content typed by the payer.
	Description string
	// Date is the bank-reported transaction date, kept verbatim since
	// formats vary per payload shape.
	Date string
}
