// Package bucket aggregates reconciled balances by exact rate value
// and into the fixed annual-rate bands.
package bucket

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// ByRate groups the dataset's balances by exact effective-annual rate
// for one rate type, ascending by rate. Every group is annotated with
// the band its rate falls in.
func ByRate(recs []model.ReconciledRate, rateType string) ([]model.RateGroup, error) {
	sums := make(map[float64]decimal.Decimal)
	for _, rec := range recs {
		rate, err := rateFor(rec, rateType)
		if err != nil {
			return nil, err
		}
		sums[rate] = sums[rate].Add(rec.Balance)
	}

	groups := make([]model.RateGroup, 0, len(sums))
	for rate, bal := range sums {
		groups = append(groups, model.RateGroup{
			Rate:     rate,
			Balance:  bal,
			RateType: rateType,
			Band:     model.BandFor(rate),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Rate < groups[j].Rate })

	if len(recs) > 0 {
		for i := range groups {
			groups[i].Period = recs[0].Period
		}
	}
	return groups, nil
}

// ByBand folds rate groups into the 13 fixed bands. All bands are
// emitted, zero-balance ones included, so downstream tables have a
// stable shape.
func ByBand(groups []model.RateGroup) []model.BandedBalance {
	bands := model.Bands()
	out := make([]model.BandedBalance, len(bands))
	for i, b := range bands {
		out[i] = model.BandedBalance{Band: b, Balance: decimal.Zero}
	}

	byLabel := make(map[string]int, len(bands))
	for i, b := range bands {
		byLabel[b.Label] = i
	}

	for _, g := range groups {
		i := byLabel[g.Band.Label]
		out[i].Balance = out[i].Balance.Add(g.Balance)
		out[i].Period = g.Period
		out[i].RateType = g.RateType
	}

	// Empty bands still need the dataset's period and rate type.
	if len(groups) > 0 {
		for i := range out {
			if out[i].Period.IsZero() {
				out[i].Period = groups[0].Period
				out[i].RateType = groups[0].RateType
			}
		}
	}
	return out
}

func rateFor(rec model.ReconciledRate, rateType string) (float64, error) {
	switch rateType {
	case model.RateTypeCurrent:
		return rec.CurrentRateEA, nil
	case model.RateTypeOriginal:
		return rec.OriginalRateEA, nil
	default:
		return 0, fmt.Errorf("unknown rate type %q", rateType)
	}
}
