// Package income projects the portfolio's monthly interest income
// under the current contractual rate and under the original rate
// expressed as a monthly-value rate.
package income

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/rates"
)

// Estimate returns both income scenarios and their delta.
//
// The current scenario applies each record's nominal period rate as
// is. The original scenario first converts the original effective
// annual rate to a 30/360 monthly-value rate. The delta (original -
// current) is the income the portfolio gave up through repricing.
func Estimate(recs []model.ReconciledRate, usuryCurrentPct float64, period time.Time) ([]model.IncomeEstimate, model.IncomeDelta) {
	current := decimal.Zero
	original := decimal.Zero
	for _, rec := range recs {
		current = current.Add(rec.Balance.Mul(decimal.NewFromFloat(rec.NominalRate / 100)))

		mv := rates.ToMonthlyValue(rec.OriginalRateEA)
		original = original.Add(rec.Balance.Mul(decimal.NewFromFloat(mv / 100)))
	}
	current = current.Round(2)
	original = original.Round(2)

	estimates := []model.IncomeEstimate{
		{Period: period, Income: current, Scenario: model.IncomeScenarioCurrent},
		{Period: period, Income: original, Scenario: model.IncomeScenarioOriginal},
	}
	delta := model.IncomeDelta{
		Period:  period,
		Delta:   original.Sub(current),
		UsuryMV: rates.ToMonthlyValue(usuryCurrentPct),
	}
	return estimates, delta
}
