package pipeline

import (
	"strconv"
	"time"

	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/store"
)

// Column sets per destination table, in persisted order. Currency
// amounts travel as fixed-point strings, variation ratios with six
// decimals, rates as floats.
var (
	compositionColumns = []string{
		"period", "total", "capital", "interest", "arrears", "other",
		"var_total", "var_capital", "var_interest", "var_arrears", "var_other",
		"prev_total", "prev_capital", "prev_interest", "prev_arrears", "prev_other",
	}

	calendarColumns = []string{"period", "fact_rows", "balance_rows", "run_id"}

	segmentationColumns = []string{"period", "segment", "balance"}

	facialColumns = []string{
		"period", "usury_rate", "implicit_rate", "facial_rate",
		"var_usury", "var_implicit", "var_facial",
		"prev_usury", "prev_implicit", "prev_facial",
	}

	bandColumns = []string{"period", "rate_type", "grain", "rate", "band", "balance"}

	shiftColumns = []string{"period", "label", "shift_pct", "exposed_balance", "impact"}

	historicalColumns = []string{"period", "usury_rate", "shift_pct", "capital", "exposed_balance", "impact", "label"}

	incomeColumns = []string{"period", "scenario", "income"}

	incomeDeltaColumns = []string{"period", "delta", "usury_mv"}

	scenarioColumns = []string{"period", "min_rate", "p25_rate", "p95_rate", "max_rate", "mean_rate"}

	stagingColumns = []string{
		"row_key", "product_id", "txn_date", "txn_type", "txn_code",
		"nominal_rate", "txn_value", "deferred_count", "balance",
		"product_type", "period",
	}
)

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func compositionRow(c model.BalanceComposition) store.Row {
	return store.Row{
		dateKey(c.Period),
		c.Total.StringFixed(2), c.Capital.StringFixed(2), c.Interest.StringFixed(2),
		c.Arrears.StringFixed(2), c.Other.StringFixed(2),
		c.VarTotal.StringFixed(6), c.VarCapital.StringFixed(6), c.VarInterest.StringFixed(6),
		c.VarArrears.StringFixed(6), c.VarOther.StringFixed(6),
		c.PrevTotal.StringFixed(2), c.PrevCapital.StringFixed(2), c.PrevInterest.StringFixed(2),
		c.PrevArrears.StringFixed(2), c.PrevOther.StringFixed(2),
	}
}

func calendarRow(period time.Time, factRows, balanceRows int, runID string) store.Row {
	return store.Row{dateKey(period), factRows, balanceRows, runID}
}

func segmentationRows(s model.SegmentedBalances) []store.Row {
	key := dateKey(s.Period)
	return []store.Row{
		{key, "portfolio purchase", s.PortfolioPurchase.StringFixed(2)},
		{key, "full payers", s.FullPayers.StringFixed(2)},
		{key, "purchases", s.Purchases.StringFixed(2)},
		{key, "advances", s.Advances.StringFixed(2)},
	}
}

func facialRow(f model.FacialRates) store.Row {
	return store.Row{
		dateKey(f.Period),
		f.Usury, f.Implicit, f.Facial,
		f.VarUsury, f.VarImplicit, f.VarFacial,
		f.PrevUsury, f.PrevImplicit, f.PrevFacial,
	}
}

// rateGroupRows are the exact-rate grain of the banded balance table;
// bandRows the band grain. Both land in the same table, told apart by
// the grain column.
func rateGroupRows(groups []model.RateGroup) []store.Row {
	rows := make([]store.Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, store.Row{
			dateKey(g.Period), g.RateType, "rate",
			strconv.FormatFloat(g.Rate, 'f', 2, 64),
			g.Band.Label, g.Balance.StringFixed(2),
		})
	}
	return rows
}

func bandRows(bands []model.BandedBalance) []store.Row {
	rows := make([]store.Row, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, store.Row{
			dateKey(b.Period), b.RateType, "band", "",
			b.Band.Label, b.Balance.StringFixed(2),
		})
	}
	return rows
}

func shiftRows(shifts []model.ShiftImpact) []store.Row {
	rows := make([]store.Row, 0, len(shifts))
	for _, s := range shifts {
		rows = append(rows, store.Row{
			dateKey(s.Period), s.Label, s.ShiftPct,
			s.Exposed.StringFixed(2), s.Impact.StringFixed(2),
		})
	}
	return rows
}

func historicalRow(h model.HistoricalImpact) store.Row {
	return store.Row{
		dateKey(h.Period), h.Usury, h.ShiftPct,
		h.Capital.StringFixed(2), h.Exposed.StringFixed(2), h.Impact.StringFixed(2),
		h.Label,
	}
}

func incomeRows(ests []model.IncomeEstimate) []store.Row {
	rows := make([]store.Row, 0, len(ests))
	for _, e := range ests {
		rows = append(rows, store.Row{dateKey(e.Period), e.Scenario, e.Income.StringFixed(2)})
	}
	return rows
}

func incomeDeltaRow(d model.IncomeDelta) store.Row {
	return store.Row{dateKey(d.Period), d.Delta.StringFixed(2), d.UsuryMV}
}

func scenarioRow(s model.UsuryScenario) store.Row {
	return store.Row{dateKey(s.Period), s.Min, s.P25, s.P95, s.Max, s.Mean}
}

func stagingRows(recs []model.TransactionRecord) []store.Row {
	rows := make([]store.Row, 0, len(recs))
	for _, r := range recs {
		// The staging table is all-text; every value goes over as a
		// string.
		rows = append(rows, store.Row{
			strconv.Itoa(r.RowKey), r.ProductID, r.TxnDate, r.TxnType, r.TxnCode,
			strconv.FormatFloat(r.NominalRate, 'f', -1, 64), r.TxnValue.StringFixed(2),
			strconv.Itoa(r.DeferredCount), r.Balance.StringFixed(2),
			r.ProductType, dateKey(r.Period),
		})
	}
	return rows
}
