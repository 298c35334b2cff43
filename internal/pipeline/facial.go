package pipeline

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/rates"
)

// Facial builds the period's reference-rate row. The usury ceiling and
// the implicit rate are operator inputs; the facial rate is the
// balance-weighted mean of the portfolio's current effective-annual
// rates.
func Facial(recs []model.ReconciledRate, usuryPct, implicitPct float64, period time.Time) model.FacialRates {
	weighted := decimal.Zero
	total := decimal.Zero
	for _, rec := range recs {
		weighted = weighted.Add(rec.Balance.Mul(decimal.NewFromFloat(rec.CurrentRateEA)))
		total = total.Add(rec.Balance)
	}

	facial := 0.0
	if !total.IsZero() {
		facial = rates.Round2(weighted.DivRound(total, 8).InexactFloat64())
	}

	return model.FacialRates{
		Period:   period,
		Usury:    usuryPct,
		Implicit: implicitPct,
		Facial:   facial,
	}
}

// applyPriorFacial attaches the last persisted rates and the
// cur/prev - 1 variations.
func applyPriorFacial(f *model.FacialRates, usury, implicit, facial float64) {
	f.PrevUsury = usury
	f.PrevImplicit = implicit
	f.PrevFacial = facial
	f.VarUsury = rateRatio(f.Usury, usury)
	f.VarImplicit = rateRatio(f.Implicit, implicit)
	f.VarFacial = rateRatio(f.Facial, facial)
}

func rateRatio(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return math.Round((cur/prev-1)*1e6) / 1e6
}
