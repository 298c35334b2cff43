// Package reconcile matches the period's transactions against the
// reference rate master so every record carries both its original and
// its current effective-annual rate.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/rates"
	"github.com/tcboard-dev/tcboard/internal/refdate"
)

// DefaultLookbackMonths is how far back the reference master is
// scanned: ten years of billing months.
const DefaultLookbackMonths = 120

// ReferenceSource supplies reference master rows for one billing
// month. Implemented by the store; the reconciler scans months
// backward through it.
type ReferenceSource interface {
	ReferenceRates(ctx context.Context, billingMonth time.Time) ([]model.ReferenceRate, error)
}

// IntegrityError is a reconciliation data-integrity fault: the run
// must stop rather than write a silently wrong period.
type IntegrityError struct {
	Period time.Time
	Reason string
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("reconciliation integrity fault for period %s: %s",
		e.Period.Format("2006-01-02"), e.Reason)
}

// Reconciler joins transactions to the reference master by composite
// business key.
type Reconciler struct {
	Source         ReferenceSource
	LookbackMonths int // DefaultLookbackMonths when 0
}

// Result is the reconciled dataset plus match statistics.
type Result struct {
	Records []model.ReconciledRate

	Matched  int
	Fallback int
	// DuplicateKeys counts reference rows discarded because an earlier
	// scanned month already supplied their composite key. The source's
	// business invariant promises uniqueness, so a non-zero count is a
	// data-quality signal for the operator, not an error.
	DuplicateKeys int
}

// Reconcile attaches original and current effective-annual rates to
// every transaction. No row is ever dropped: a missing reference match
// falls back to the derived current rate, and a deferred-installment
// count of exactly 1 (full payer) forces the original rate to zero.
func (r *Reconciler) Reconcile(ctx context.Context, period refdate.Date, txns []model.TransactionRecord) (*Result, error) {
	index, dups, scanned, err := r.scanReference(ctx, period)
	if err != nil {
		return nil, err
	}
	if scanned == 0 {
		return nil, IntegrityError{
			Period: period.Last(),
			Reason: fmt.Sprintf("reference master empty across the full %d-month lookback window", r.lookback()),
		}
	}

	res := &Result{
		Records:       make([]model.ReconciledRate, 0, len(txns)),
		DuplicateKeys: dups,
	}
	for _, txn := range txns {
		rec := model.ReconciledRate{
			TransactionRecord: txn,
			CurrentRateEA:     rates.ToEffectiveAnnual(txn.NominalRate),
		}
		switch {
		case txn.DeferredCount == 1:
			// Full payers accrue no interest on the deferred plan: the
			// original rate is zero whether or not the master matches.
			rec.OriginalRateEA = 0
			if _, ok := index[txn.Key()]; ok {
				rec.Matched = true
				res.Matched++
			} else {
				res.Fallback++
			}
		default:
			if ref, ok := index[txn.Key()]; ok {
				rec.OriginalRateEA = rates.Round2(ref.OriginalRateEA)
				rec.Matched = true
				res.Matched++
			} else {
				// No original data: treat the contract as never
				// repriced rather than failing the row.
				rec.OriginalRateEA = rec.CurrentRateEA
				res.Fallback++
			}
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func (r *Reconciler) lookback() int {
	if r.LookbackMonths > 0 {
		return r.LookbackMonths
	}
	return DefaultLookbackMonths
}

// scanReference walks billing months backward from the reporting month
// and unions the master rows, keeping the first occurrence of each
// composite key (the most recent month, since the scan goes backward).
func (r *Reconciler) scanReference(ctx context.Context, period refdate.Date) (map[model.CompositeKey]model.ReferenceRate, int, int, error) {
	index := make(map[model.CompositeKey]model.ReferenceRate)
	dups := 0
	scanned := 0

	month := period.First()
	for i := 0; i < r.lookback(); i++ {
		rows, err := r.Source.ReferenceRates(ctx, month)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("scanning reference master for %s: %w", month.Format("2006-01"), err)
		}
		scanned += len(rows)
		for _, row := range rows {
			key := row.Key()
			if _, seen := index[key]; seen {
				dups++
				continue
			}
			index[key] = row
		}
		month = month.AddDate(0, -1, 0)
	}
	return index, dups, scanned, nil
}
