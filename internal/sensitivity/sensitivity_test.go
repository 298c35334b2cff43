package sensitivity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcboard-dev/tcboard/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(original, current float64, balance string) model.ReconciledRate {
	return model.ReconciledRate{
		TransactionRecord: model.TransactionRecord{Balance: dec(balance)},
		OriginalRateEA:    original,
		CurrentRateEA:     current,
	}
}

func TestComputeImpact_RiseCapsAtNewCeiling(t *testing.T) {
	// original=30 > threshold=28, so the row is exposed; the capped
	// rate is min(30, 29)=29 and current is already 29, so the row
	// regains nothing.
	recs := []model.ReconciledRate{rec(30.0, 29.0, "1000.00")}

	exposed, impact := ComputeImpact(28.0, 1.0, recs)
	assert.True(t, exposed.Equal(dec("1000.00")), "exposed = %s", exposed)
	assert.True(t, impact.Equal(dec("0.00")), "impact = %s", impact)
}

func TestComputeImpact_RiseRegainsIncome(t *testing.T) {
	recs := []model.ReconciledRate{
		rec(30.0, 26.0, "1000.00"), // capped at 29, regains 3pp -> 30.00
		rec(27.0, 27.0, "500.00"),  // below threshold, untouched
	}

	exposed, impact := ComputeImpact(28.0, 1.0, recs)
	assert.True(t, exposed.Equal(dec("1000.00")))
	assert.True(t, impact.Equal(dec("30.00")), "impact = %s", impact)
}

func TestComputeImpact_FallUniformShock(t *testing.T) {
	// current=27.5 >= 28-1=27 -> exposed, impact = -1000 x 0.01.
	recs := []model.ReconciledRate{rec(0, 27.5, "1000.00")}

	exposed, impact := ComputeImpact(28.0, -1.0, recs)
	assert.True(t, exposed.Equal(dec("1000.00")))
	assert.True(t, impact.Equal(dec("-10.00")), "impact = %s", impact)
}

func TestComputeImpact_ZeroShiftIsNoOp(t *testing.T) {
	recs := []model.ReconciledRate{rec(30.0, 29.0, "1000.00")}
	exposed, impact := ComputeImpact(28.0, 0, recs)
	assert.True(t, exposed.IsZero())
	assert.True(t, impact.IsZero())
}

func TestComputeImpactAsymmetry(t *testing.T) {
	// The rise and fall formulas are intentionally different models:
	// capped per-row recovery vs uniform linear shock. Their results
	// are NOT negatives of each other.
	recs := []model.ReconciledRate{
		rec(30.0, 26.0, "1000.00"),
		rec(27.5, 27.5, "500.00"),
	}

	_, up := ComputeImpact(28.0, 1.0, recs)
	_, down := ComputeImpact(28.0, -1.0, recs)

	assert.True(t, up.Equal(dec("30.00")), "up = %s", up)
	assert.True(t, down.Equal(dec("-15.00")), "down = %s", down)
	assert.False(t, up.Equal(down.Neg()), "designed asymmetry: %s vs %s", up, down)
}

func TestFixedShifts(t *testing.T) {
	period := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	recs := []model.ReconciledRate{rec(30.0, 26.0, "1000.00")}

	rows := FixedShifts(28.0, 4.5, recs, period)
	require.Len(t, rows, 2)

	assert.Equal(t, "up 450 bps", rows[0].Label)
	assert.Equal(t, 4.5, rows[0].ShiftPct)
	// capped = min(30, 32.5) = 30, regains 4pp on 1000.
	assert.True(t, rows[0].Impact.Equal(dec("40.00")), "impact = %s", rows[0].Impact)

	assert.Equal(t, "down 450 bps", rows[1].Label)
	assert.Equal(t, -4.5, rows[1].ShiftPct)
	// current 26 >= 28-4.5=23.5 -> exposed 1000, shock -45.
	assert.True(t, rows[1].Impact.Equal(dec("-45.00")), "impact = %s", rows[1].Impact)

	for _, row := range rows {
		assert.Equal(t, period, row.Period)
	}
}

func TestSweep(t *testing.T) {
	period := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	recs := []model.ReconciledRate{rec(30.0, 26.0, "1000.00")}

	rows := Sweep(28.0, recs, period)
	require.Len(t, rows, 7)

	shifts := make([]float64, 0, 7)
	for _, row := range rows {
		shifts = append(shifts, row.ShiftPct)
	}
	assert.Equal(t, SweepShifts, shifts)

	// The zero point is present and inert.
	assert.Equal(t, "shift 0 bps", rows[3].Label)
	assert.True(t, rows[3].Exposed.IsZero())
	assert.True(t, rows[3].Impact.IsZero())

	// The +30bps point caps at 28.3: 1000 x (28.3-26)/100 = 23.
	assert.Equal(t, "shift 30 bps", rows[4].Label)
	assert.True(t, rows[4].Impact.Equal(dec("23.00")), "impact = %s", rows[4].Impact)
}
