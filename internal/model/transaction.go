package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one row of the monthly transaction fact extract:
// a credit-card transaction with its balance snapshot at cut-off.
type TransactionRecord struct {
	RowKey        int             // sequential key assigned at ingestion
	ProductID     string          // card/product number
	TxnDate       string          // transaction date as it appears in the extract
	TxnType       string          // 1/C = purchase, 2/V = advance
	TxnCode       string          // two-character movement code
	NominalRate   float64         // nominal period rate, percent
	TxnValue      decimal.Decimal // original transaction value
	DeferredCount int             // deferred installments; 1 = full payer
	Balance       decimal.Decimal // outstanding balance at cut-off
	ProductType   string          // product type code
	Period        time.Time       // reporting period (last day of month)
}

// CompositeKey is the natural join key into the reference rate master.
// It must be unique per reporting period for a 1:1 reconciliation.
type CompositeKey struct {
	ProductID     string
	TxnDate       string
	TxnValue      string // canonical 2-decimal string, avoids float keying
	DeferredCount int
	TxnCode       string
	ProductType   string
}

// Key returns the record's composite reference-master join key.
func (t TransactionRecord) Key() CompositeKey {
	return CompositeKey{
		ProductID:     t.ProductID,
		TxnDate:       t.TxnDate,
		TxnValue:      t.TxnValue.StringFixed(2),
		DeferredCount: t.DeferredCount,
		TxnCode:       t.TxnCode,
		ProductType:   t.ProductType,
	}
}

// ReferenceRate is one row of the reference rate master for a given
// billing month: the effective-annual rate the contract carried when
// the transaction was originally billed.
type ReferenceRate struct {
	ProductID      string
	TxnDate        string
	TxnValue       decimal.Decimal
	DeferredCount  int
	TxnCode        string
	ProductType    string
	OriginalRateEA float64   // effective annual rate, percent
	BillingMonth   time.Time // first day of the month the rate was captured
}

// Key returns the reference row's composite join key.
func (r ReferenceRate) Key() CompositeKey {
	return CompositeKey{
		ProductID:     r.ProductID,
		TxnDate:       r.TxnDate,
		TxnValue:      r.TxnValue.StringFixed(2),
		DeferredCount: r.DeferredCount,
		TxnCode:       r.TxnCode,
		ProductType:   r.ProductType,
	}
}

// ReconciledRate is a TransactionRecord with both rate views attached:
// the original contractual rate from the reference master (or the
// fallback) and the current rate derived from the nominal period rate.
type ReconciledRate struct {
	TransactionRecord
	OriginalRateEA float64 // effective annual, percent
	CurrentRateEA  float64 // effective annual, percent
	Matched        bool    // reference master supplied the original rate
}
