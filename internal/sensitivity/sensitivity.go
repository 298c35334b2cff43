// Package sensitivity simulates usury-rate shifts over the reconciled
// dataset: exposed balance and the estimated P&L impact of moving the
// regulatory ceiling.
package sensitivity

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// SweepShifts is the 7-point shift grid (percentage points) of the
// sensitivity sweep table.
var SweepShifts = []float64{-1, -0.6, -0.3, 0, 0.3, 0.6, 1}

// ComputeImpact runs one shift scenario against a usury threshold.
//
// The two directions are deliberately asymmetric:
//   - ceiling rises (shift > 0): only rows whose original rate already
//     exceeds the old ceiling regain income, each capped at
//     threshold+shift; the impact is per-row, balance x (capped -
//     current)/100.
//   - ceiling falls (shift < 0): every row currently at or above the
//     new ceiling takes a uniform linear shock, -exposed x |shift|/100,
//     with no per-row capping.
//
// A zero shift is a no-op scenario with zero exposure and impact.
func ComputeImpact(thresholdPct, shiftPct float64, recs []model.ReconciledRate) (exposed, impact decimal.Decimal) {
	exposed = decimal.Zero
	impact = decimal.Zero

	switch {
	case shiftPct > 0:
		ceiling := thresholdPct + shiftPct
		for _, rec := range recs {
			if rec.OriginalRateEA <= thresholdPct {
				continue
			}
			capped := math.Min(rec.OriginalRateEA, ceiling)
			exposed = exposed.Add(rec.Balance)
			delta := decimal.NewFromFloat((capped - rec.CurrentRateEA) / 100)
			impact = impact.Add(rec.Balance.Mul(delta))
		}
	case shiftPct < 0:
		floor := thresholdPct - math.Abs(shiftPct)
		for _, rec := range recs {
			if rec.CurrentRateEA >= floor {
				exposed = exposed.Add(rec.Balance)
			}
		}
		shock := decimal.NewFromFloat(math.Abs(shiftPct) / 100)
		impact = exposed.Mul(shock).Neg()
	}

	return exposed.Round(2), impact.Round(2)
}

// FixedShifts runs the symmetric ±bps pair (e.g. ±100bps, ±450bps)
// and returns the two scenario rows, rise first.
func FixedShifts(thresholdPct, shiftPct float64, recs []model.ReconciledRate, period time.Time) []model.ShiftImpact {
	bps := int(math.Round(shiftPct * 100))
	up := scenario(thresholdPct, shiftPct, recs, period)
	up.Label = fmt.Sprintf("up %d bps", bps)
	down := scenario(thresholdPct, -shiftPct, recs, period)
	down.Label = fmt.Sprintf("down %d bps", bps)
	return []model.ShiftImpact{up, down}
}

// Sweep evaluates the 7-point shift grid against the threshold.
func Sweep(thresholdPct float64, recs []model.ReconciledRate, period time.Time) []model.ShiftImpact {
	out := make([]model.ShiftImpact, 0, len(SweepShifts))
	for _, shift := range SweepShifts {
		row := scenario(thresholdPct, shift, recs, period)
		row.Label = fmt.Sprintf("shift %d bps", int(math.Round(shift*100)))
		out = append(out, row)
	}
	return out
}

func scenario(thresholdPct, shiftPct float64, recs []model.ReconciledRate, period time.Time) model.ShiftImpact {
	exposed, impact := ComputeImpact(thresholdPct, shiftPct, recs)
	return model.ShiftImpact{
		Period:   period,
		ShiftPct: shiftPct,
		Exposed:  exposed,
		Impact:   impact,
	}
}
