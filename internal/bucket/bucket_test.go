package bucket

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcboard-dev/tcboard/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(current, original float64, balance string) model.ReconciledRate {
	return model.ReconciledRate{
		TransactionRecord: model.TransactionRecord{
			Balance: dec(balance),
			Period:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		CurrentRateEA:  current,
		OriginalRateEA: original,
	}
}

func TestByRate_GroupsAndSorts(t *testing.T) {
	recs := []model.ReconciledRate{
		rec(26.82, 30.0, "100.00"),
		rec(26.82, 30.0, "200.00"),
		rec(12.68, 28.0, "50.00"),
	}

	groups, err := ByRate(recs, model.RateTypeCurrent)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, 12.68, groups[0].Rate)
	assert.True(t, groups[0].Balance.Equal(dec("50.00")))
	assert.Equal(t, 26.82, groups[1].Rate)
	assert.True(t, groups[1].Balance.Equal(dec("300.00")))
	assert.Equal(t, model.RateTypeCurrent, groups[0].RateType)
	assert.Equal(t, recs[0].Period, groups[0].Period)
}

func TestByRate_OriginalRateView(t *testing.T) {
	recs := []model.ReconciledRate{
		rec(26.82, 30.0, "100.00"),
		rec(12.68, 30.0, "50.00"),
	}
	groups, err := ByRate(recs, model.RateTypeOriginal)
	require.NoError(t, err)
	require.Len(t, groups, 1, "both records share the original rate")
	assert.True(t, groups[0].Balance.Equal(dec("150.00")))
}

func TestByRate_UnknownType(t *testing.T) {
	_, err := ByRate([]model.ReconciledRate{rec(1, 1, "1.00")}, "weighted")
	require.Error(t, err)
}

func TestByBand_BoundariesAreRightClosed(t *testing.T) {
	// A rate exactly on a boundary belongs to the band below.
	tests := []struct {
		rate float64
		band string
	}{
		{-3.0, "a. 0%"},
		{0.0, "a. 0%"},
		{0.01, "b. 0.1% - 0.9%"},
		{1.0, "b. 0.1% - 0.9%"},
		{11.0, "c. 1% - 10.9%"},
		{26.5, "g. 26% - 26.4%"},
		{26.51, "h. 26.5% - 26.9%"},
		{30.0, "l. 29% - 29.9%"},
		{30.01, "m. >30%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, model.BandFor(tt.rate).Label, "rate %v", tt.rate)
	}
}

func TestByBand_TotalInvariant(t *testing.T) {
	recs := []model.ReconciledRate{
		rec(0, 0, "10.00"),
		rec(12.68, 0, "20.00"),
		rec(26.82, 0, "30.00"),
		rec(27.4, 0, "40.00"),
		rec(45.0, 0, "50.00"),
	}
	groups, err := ByRate(recs, model.RateTypeCurrent)
	require.NoError(t, err)
	banded := ByBand(groups)
	require.Len(t, banded, 13, "all bands emitted, empty ones included")

	groupTotal := decimal.Zero
	for _, g := range groups {
		groupTotal = groupTotal.Add(g.Balance)
	}
	bandTotal := decimal.Zero
	for _, b := range banded {
		bandTotal = bandTotal.Add(b.Balance)
	}
	assert.True(t, groupTotal.Equal(bandTotal),
		"band totals (%s) must equal raw group totals (%s)", bandTotal, groupTotal)
}

func TestByBand_EmptyBandsCarryPeriod(t *testing.T) {
	groups, err := ByRate([]model.ReconciledRate{rec(26.82, 0, "30.00")}, model.RateTypeCurrent)
	require.NoError(t, err)
	banded := ByBand(groups)
	for _, b := range banded {
		assert.Equal(t, model.RateTypeCurrent, b.RateType)
		assert.False(t, b.Period.IsZero())
	}
}
