package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/store"
)

// SchemaError means the historical balance-composition row no longer
// matches the column layout this run writes. Month-over-month deltas
// would be garbage, so the run stops.
type SchemaError struct {
	Table    string
	Expected []string
	Got      []string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch on %s: expected columns %v, got %v", e.Table, e.Expected, e.Got)
}

// Compose aggregates the balance extract into the period's composition
// figures. Total nets arrears capital out of gross capital; the
// capital line rebuilds the productive balance from its components
// instead of taking the gross figure.
func Compose(records []model.BalanceRecord, period time.Time) model.BalanceComposition {
	gross := decimal.Zero
	capital := decimal.Zero
	interest := decimal.Zero
	arrears := decimal.Zero
	other := decimal.Zero

	for _, r := range records {
		gross = gross.Add(r.Capital)
		capital = capital.Add(r.AdvancesBalance).
			Add(r.PurchasesBalance).
			Sub(r.CapitalArrears).
			Add(r.CreditBalance).
			Add(r.CreditBalanceUSD).
			Add(r.CapitalUSD).
			Add(r.HandlingFeeUnpr)
		interest = interest.Add(r.InterestCurrent).
			Add(r.InterestCurrUSD).
			Add(r.InterestArrears).
			Add(r.InterestArrUSD)
		arrears = arrears.Add(r.CapitalArrears)
		other = other.Add(r.OtherCharges).
			Add(r.HandlingFeeProd).
			Add(r.Insurance)
	}

	return model.BalanceComposition{
		Period:   period,
		Total:    gross.Sub(arrears).Round(2),
		Capital:  capital.Round(2),
		Interest: interest.Round(2),
		Arrears:  arrears.Round(2),
		Other:    other.Round(2),
	}
}

// applyPrior attaches the prior month's values and the cur/prev - 1
// variation ratios, after checking that the persisted row still has
// the column layout this run understands.
func applyPrior(c *model.BalanceComposition, columns, values []string) error {
	if !sameColumns(columns, store.CompositionColumns) {
		return SchemaError{
			Table:    store.TableBalanceComposition,
			Expected: store.CompositionColumns,
			Got:      columns,
		}
	}

	prev := make([]decimal.Decimal, 0, len(values)-1)
	for i, v := range values[1:] {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("parsing prior %s value %q: %w", columns[i+1], v, err)
		}
		prev = append(prev, d)
	}

	c.PrevTotal, c.PrevCapital, c.PrevInterest, c.PrevArrears, c.PrevOther =
		prev[0], prev[1], prev[2], prev[3], prev[4]
	c.VarTotal = ratio(c.Total, c.PrevTotal)
	c.VarCapital = ratio(c.Capital, c.PrevCapital)
	c.VarInterest = ratio(c.Interest, c.PrevInterest)
	c.VarArrears = ratio(c.Arrears, c.PrevArrears)
	c.VarOther = ratio(c.Other, c.PrevOther)
	return nil
}

// ratio is cur/prev - 1, zero when there is no prior balance to
// compare against.
func ratio(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.DivRound(prev, 6).Sub(decimal.NewFromInt(1))
}

func sameColumns(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
