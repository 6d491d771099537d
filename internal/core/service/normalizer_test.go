package service

import (
	"errors"
	"testing"

	"github.com/goshop/storefront/internal/core"
)

func TestNormalizer_ShapeEquivalence(t *testing.T) {
	t.Parallel()

	want := core.BankTransaction{
		ID:          "FT230900123",
		Amount:      150000,
		Description: "CK DON HANG GOAB12CD",
		Date:        "2023-09-01",
	}

	shapes := map[string]string{
		"flat": `{
			"tranId": "FT230900123",
			"tranAmount": 150000,
			"tranContent": "CK DON HANG GOAB12CD",
			"transactionDate": "2023-09-01"
		}`,
		"single-wrapped": `{
			"requestTrace": "FT230900123",
			"requestParameters": {
				"transactionAmount": 150000,
				"description": "CK DON HANG GOAB12CD",
				"transactionDate": "2023-09-01"
			}
		}`,
		"batch": `{
			"requests": [{
				"requestParams": {
					"transactions": [{
						"transactionCode": "FT230900123",
						"amount": 150000,
						"transactionContent": "CK DON HANG GOAB12CD",
						"transactionDate": "2023-09-01",
						"transactionStatus": "COMPLETED"
					}]
				}
			}]
		}`,
	}

	var n Normalizer
	for name, payload := range shapes {
		payload := payload
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, status, err := n.Normalize([]byte(payload))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if status != NormalizeOK {
				t.Fatalf("expected NormalizeOK, got %v", status)
			}
			if *got != want {
				t.Fatalf("expected %+v, got %+v", want, *got)
			}
		})
	}
}

func TestNormalizer_FieldPriority(t *testing.T) {
	t.Parallel()

	// transactionId outranks tranId; amount outranks tranAmount.
	payload := `{
		"transactionId": "PRIMARY",
		"tranId": "SECONDARY",
		"amount": 100,
		"tranAmount": 999,
		"tranContent": "x"
	}`

	got, status, err := Normalizer{}.Normalize([]byte(payload))
	if err != nil || status != NormalizeOK {
		t.Fatalf("expected ok, got status=%v err=%v", status, err)
	}
	if got.ID != "PRIMARY" {
		t.Fatalf("expected transactionId to win, got %q", got.ID)
	}
	if got.Amount != 100 {
		t.Fatalf("expected amount candidate to win, got %d", got.Amount)
	}
}

func TestNormalizer_AmountAsString(t *testing.T) {
	t.Parallel()

	got, status, err := Normalizer{}.Normalize([]byte(`{"tranId":"T1","tranAmount":"372200","tranContent":"x"}`))
	if err != nil || status != NormalizeOK {
		t.Fatalf("expected ok, got status=%v err=%v", status, err)
	}
	if got.Amount != 372200 {
		t.Fatalf("expected 372200, got %d", got.Amount)
	}
}

func TestNormalizer_HeartbeatIsNoTransaction(t *testing.T) {
	t.Parallel()

	got, status, err := Normalizer{}.Normalize([]byte(`{"status":"ok","message":"ping"}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status != NormalizeNoTransaction {
		t.Fatalf("expected NormalizeNoTransaction, got %v", status)
	}
	if got != nil {
		t.Fatalf("expected nil record, got %+v", got)
	}
}

func TestNormalizer_BatchSkipsNonCompletedEntries(t *testing.T) {
	t.Parallel()

	payload := `{
		"requests": [{
			"requestParams": {
				"transactions": [
					{"transactionCode": "T-FAILED", "amount": 1, "transactionContent": "a", "transactionStatus": "FAILED"},
					{"transactionCode": "T-OK", "amount": 2, "transactionContent": "b", "transactionStatus": "completed"}
				]
			}
		}]
	}`

	got, status, err := Normalizer{}.Normalize([]byte(payload))
	if err != nil || status != NormalizeOK {
		t.Fatalf("expected ok, got status=%v err=%v", status, err)
	}
	if got.ID != "T-OK" {
		t.Fatalf("expected the settled entry, got %q", got.ID)
	}
}

func TestNormalizer_BatchWithoutCompletedEntries(t *testing.T) {
	t.Parallel()

	payload := `{
		"requests": [{
			"requestParams": {
				"transactions": [
					{"transactionCode": "T1", "amount": 1, "transactionContent": "a", "transactionStatus": "PENDING"}
				]
			}
		}]
	}`

	got, status, err := Normalizer{}.Normalize([]byte(payload))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status != NormalizeIgnoredStatus {
		t.Fatalf("expected NormalizeIgnoredStatus, got %v", status)
	}
	if got != nil {
		t.Fatalf("expected nil record, got %+v", got)
	}
}

func TestNormalizer_EmptyBatchIsNoTransaction(t *testing.T) {
	t.Parallel()

	_, status, err := Normalizer{}.Normalize([]byte(`{"requests":[]}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status != NormalizeNoTransaction {
		t.Fatalf("expected NormalizeNoTransaction, got %v", status)
	}
}

func TestNormalizer_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, _, err := Normalizer{}.Normalize([]byte(`not json at all`))
	if !errors.Is(err, ErrUnrecognizedPayload) {
		t.Fatalf("expected ErrUnrecognizedPayload, got %v", err)
	}
}
