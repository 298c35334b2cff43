package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// tableDefs is the typed DDL for every destination table. Currency
// amounts and variation ratios are text, the way the BI store keeps
// them; rates and shifts are floats. The reference billing master is
// owned upstream and never created here.
var tableDefs = map[string][]string{
	TableBalanceComposition: {
		"period text", "total text", "capital text", "interest text", "arrears text", "other text",
		"var_total text", "var_capital text", "var_interest text", "var_arrears text", "var_other text",
		"prev_total text", "prev_capital text", "prev_interest text", "prev_arrears text", "prev_other text",
	},
	TableCalendar: {
		"period text", "fact_rows bigint", "balance_rows bigint", "run_id text",
	},
	TableSegmentation: {
		"period text", "segment text", "balance text",
	},
	TableFacialRates: {
		"period text", "usury_rate double precision", "implicit_rate double precision", "facial_rate double precision",
		"var_usury double precision", "var_implicit double precision", "var_facial double precision",
		"prev_usury double precision", "prev_implicit double precision", "prev_facial double precision",
	},
	TableBalanceByBand: {
		"period text", "rate_type text", "grain text", "rate text", "band text", "balance text",
	},
	TableShift100: {
		"period text", "label text", "shift_pct double precision", "exposed_balance text", "impact text",
	},
	TableShiftHistorical: {
		"period text", "usury_rate double precision", "shift_pct double precision",
		"capital text", "exposed_balance text", "impact text", "label text",
	},
	TableSweep: {
		"period text", "label text", "shift_pct double precision", "exposed_balance text", "impact text",
	},
	TableIncomeMV: {
		"period text", "scenario text", "income text",
	},
	TableIncomeDelta: {
		"period text", "delta text", "usury_mv double precision",
	},
	TableShift450: {
		"period text", "label text", "shift_pct double precision", "exposed_balance text", "impact text",
	},
	TableScenarios: {
		"period text", "min_rate double precision", "p25_rate double precision",
		"p95_rate double precision", "max_rate double precision", "mean_rate double precision",
	},
}

// EnsureSchema creates any missing destination table. Safe to run on
// every start.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for table, defs := range tableDefs {
		stmt := "CREATE TABLE IF NOT EXISTS " + pgx.Identifier{table}.Sanitize() + " ("
		for i, def := range defs {
			if i > 0 {
				stmt += ", "
			}
			stmt += def
		}
		stmt += ")"
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return nil
}
