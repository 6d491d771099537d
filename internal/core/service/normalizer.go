package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goshop/storefront/internal/core"
)

// ErrUnrecognizedPayload indicates the body could not be parsed at all.
// Callers surface this as a client error; everything parseable but
// shapeless is a non-error "no transaction" result instead.
var ErrUnrecognizedPayload = errors.New("unrecognized payload")

// NormalizeStatus classifies the normalization result
type NormalizeStatus int

const (
	// NormalizeOK means a canonical transaction record was produced
	NormalizeOK NormalizeStatus = iota
	// NormalizeNoTransaction means no transaction was resolvable, e.g.
	// a heartbeat call from the bank
	NormalizeNoTransaction
	// NormalizeIgnoredStatus means transaction entries were present but
	// none carried the completed status
	NormalizeIgnoredStatus
)

// Candidate key paths per canonical field, probed in order across every
// shape the bank has been observed to deliver. Supporting a new bank
// format means appending candidates here, nothing else.
var (
	transactionIDPaths = []string{
		"transactionId",
		"referenceCode",
		"tranId",
		"requestParameters.transactionId",
		"requestParameters.referenceCode",
		"requestParameters.tranId",
		"requestTrace",
	}
	amountPaths = []string{
		"amount",
		"tranAmount",
		"requestParameters.transactionAmount",
		"requestParameters.amount",
	}
	descriptionPaths = []string{
		"description",
		"tranContent",
		"requestParameters.description",
		"requestParameters.tranContent",
	}
	transactionDatePaths = []string{
		"transactionDate",
		"requestParameters.transactionDate",
	}
)

// Normalizer converts any of the bank's observed payload shapes into the
// canonical transaction record:
//  1. flat field sets at the top level,
//  2. the same fields wrapped under requestParameters, and
//  3. the batch envelope requests[].requestParams.transactions[].
type Normalizer struct{}

// Normalize parses a raw notification body and resolves one canonical
// transaction record from it
func (Normalizer) Normalize(raw []byte) (*core.BankTransaction, NormalizeStatus, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, NormalizeNoTransaction, fmt.Errorf("%w: %v", ErrUnrecognizedPayload, err)
	}

	if entries, ok := batchTransactions(doc); ok {
		return normalizeBatch(entries)
	}

	id := firstString(doc, transactionIDPaths)
	if id == "" {
		return nil, NormalizeNoTransaction, nil
	}
	amount, _ := firstAmount(doc, amountPaths)
	return &core.BankTransaction{
		ID:          id,
		Amount:      amount,
		Description: firstString(doc, descriptionPaths),
		Date:        firstString(doc, transactionDatePaths),
	}, NormalizeOK, nil
}

// batchTransactions collects the transaction entries of a batch envelope,
// ok=false when the document is not batch-shaped
func batchTransactions(doc map[string]interface{}) ([]map[string]interface{}, bool) {
	requests, ok := doc["requests"].([]interface{})
	if !ok {
		return nil, false
	}
	var entries []map[string]interface{}
	for _, req := range requests {
		reqMap, ok := req.(map[string]interface{})
		if !ok {
			continue
		}
		params, ok := reqMap["requestParams"].(map[string]interface{})
		if !ok {
			continue
		}
		txs, ok := params["transactions"].([]interface{})
		if !ok {
			continue
		}
		for _, tx := range txs {
			if txMap, ok := tx.(map[string]interface{}); ok {
				entries = append(entries, txMap)
			}
		}
	}
	return entries, true
}

// normalizeBatch picks the first settled entry of a batch envelope.
// Entries with any other status are skipped, not matches and not errors.
func normalizeBatch(entries []map[string]interface{}) (*core.BankTransaction, NormalizeStatus, error) {
	sawEntry := false
	for _, entry := range entries {
		sawEntry = true
		status := stringValue(entry["transactionStatus"])
		if !strings.EqualFold(status, core.TransactionStatusCompleted) {
			continue
		}
		id := stringValue(entry["transactionCode"])
		if id == "" {
			continue
		}
		amount, _ := amountValue(entry["amount"])
		return &core.BankTransaction{
			ID:          id,
			Amount:      amount,
			Description: stringValue(entry["transactionContent"]),
			Date:        stringValue(entry["transactionDate"]),
		}, NormalizeOK, nil
	}
	if sawEntry {
		return nil, NormalizeIgnoredStatus, nil
	}
	return nil, NormalizeNoTransaction, nil
}

// valueAt walks a dotted key path through nested objects
func valueAt(doc map[string]interface{}, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func firstString(doc map[string]interface{}, paths []string) string {
	for _, path := range paths {
		if v, ok := valueAt(doc, path); ok {
			if s := stringValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstAmount(doc map[string]interface{}, paths []string) (int64, bool) {
	for _, path := range paths {
		if v, ok := valueAt(doc, path); ok {
			if n, ok := amountValue(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	}
	return ""
}

// amountValue coerces the bank's amount representations (JSON number or
// numeric string, sometimes with a fractional part) to whole currency units
func amountValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(n), true
	}
	return 0, false
}
