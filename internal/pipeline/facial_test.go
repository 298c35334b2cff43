package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcboard-dev/tcboard/internal/model"
)

func TestFacial_WeightedMean(t *testing.T) {
	recs := []model.ReconciledRate{
		{TransactionRecord: model.TransactionRecord{Balance: dec("750")}, CurrentRateEA: 20},
		{TransactionRecord: model.TransactionRecord{Balance: dec("250")}, CurrentRateEA: 28},
	}

	f := Facial(recs, 28.5, 24.1, compPeriod)

	assert.InDelta(t, 22.0, f.Facial, 1e-9)
	assert.Equal(t, 28.5, f.Usury)
	assert.Equal(t, 24.1, f.Implicit)
	assert.Zero(t, f.VarFacial)
	assert.Zero(t, f.PrevFacial)
}

func TestFacial_NoBalance(t *testing.T) {
	f := Facial(nil, 28.5, 24.1, compPeriod)
	assert.Zero(t, f.Facial)
}

func TestApplyPriorFacial(t *testing.T) {
	f := model.FacialRates{Usury: 22, Implicit: 25, Facial: 21}

	applyPriorFacial(&f, 20, 25, 0)

	assert.InDelta(t, 0.1, f.VarUsury, 1e-9)
	assert.Zero(t, f.VarImplicit)
	// Zero prior rate means no meaningful ratio.
	assert.Zero(t, f.VarFacial)
	assert.Equal(t, 20.0, f.PrevUsury)
	assert.Equal(t, 25.0, f.PrevImplicit)
}

func TestHistoricalImpact_NoChange(t *testing.T) {
	recs := []model.ReconciledRate{
		{TransactionRecord: model.TransactionRecord{Balance: dec("1000")}, OriginalRateEA: 30, CurrentRateEA: 26},
	}

	h := historicalImpact(28, 28, recs, compPeriod)

	assert.Equal(t, "shift 0 bps", h.Label)
	assert.Zero(t, h.ShiftPct)
	assert.Equal(t, "0.00", h.Exposed.StringFixed(2))
	assert.Equal(t, "0.00", h.Impact.StringFixed(2))
	assert.Equal(t, "1000.00", h.Capital.StringFixed(2))
	assert.Equal(t, 28.0, h.Usury)
}

func TestHistoricalImpact_CeilingRises(t *testing.T) {
	recs := []model.ReconciledRate{
		{TransactionRecord: model.TransactionRecord{Balance: dec("1000")}, OriginalRateEA: 30, CurrentRateEA: 26},
		{TransactionRecord: model.TransactionRecord{Balance: dec("500")}, OriginalRateEA: 27, CurrentRateEA: 27},
	}

	h := historicalImpact(28, 28.5, recs, compPeriod)

	assert.Equal(t, "shift 50 bps", h.Label)
	assert.InDelta(t, 0.5, h.ShiftPct, 1e-9)
	// Only the row above the old ceiling regains income, capped at 28.5.
	assert.Equal(t, "1000.00", h.Exposed.StringFixed(2))
	assert.Equal(t, "25.00", h.Impact.StringFixed(2))
	assert.Equal(t, "1500.00", h.Capital.StringFixed(2))
}
