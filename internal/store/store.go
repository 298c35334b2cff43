// Package store owns the lifecycle of the dashboard's destination
// tables in the relational result store. Computation steps only build
// rows; everything that touches a table goes through Store.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// Destination tables. Every table is period-partitioned; re-running a
// period requires purging its rows first.
const (
	TableBalanceComposition = "balance_composition"
	TableCalendar           = "period_calendar"
	TableSegmentation       = "balance_segmentation"
	TableFacialRates        = "reference_rates_facial"
	TableBalanceByBand      = "balance_by_rate_band"
	TableShift100           = "usury_shift_100bps"
	TableShiftHistorical    = "usury_shift_historical"
	TableSweep              = "usury_sensitivity_sweep"
	TableIncomeMV           = "income_estimate_mv"
	TableIncomeDelta        = "income_delta_mv"
	TableShift450           = "usury_shift_450bps"
	TableScenarios          = "usury_scenarios"

	// TableReferenceMaster is the upstream billing master the
	// reconciler scans. Read-only from this module's point of view.
	TableReferenceMaster = "reference_billing_master"
)

// periodColumns maps each period-partitioned table to its period
// column, for the purge that makes re-runs idempotent.
var periodColumns = map[string]string{
	TableBalanceComposition: "period",
	TableCalendar:           "period",
	TableSegmentation:       "period",
	TableFacialRates:        "period",
	TableBalanceByBand:      "period",
	TableShift100:           "period",
	TableShiftHistorical:    "period",
	TableSweep:              "period",
	TableIncomeMV:           "period",
	TableIncomeDelta:        "period",
	TableShift450:           "period",
	TableScenarios:          "period",
}

// StagingTable names the period's raw transaction staging table,
// e.g. txn_facts_2024_01. It is replaced wholesale each run.
func StagingTable(period time.Time) string {
	return fmt.Sprintf("txn_facts_%s", period.Format("2006_01"))
}

// Row is one destination row as ordered column values. Values must be
// plain encodable types (string, float64, int, time.Time); currency
// amounts travel as fixed-point strings, the way the BI store keeps
// them.
type Row []any

// Store is the persistence collaborator injected into the pipeline.
type Store interface {
	// Append bulk-inserts rows into an existing table.
	Append(ctx context.Context, table string, columns []string, rows []Row) error

	// Replace drops and recreates table with the given columns before
	// inserting. Used only for the raw-facts staging table.
	Replace(ctx context.Context, table string, columns []string, rows []Row) error

	// PurgePeriod deletes the period's rows from every destination
	// table and drops the period's staging table.
	PurgePeriod(ctx context.Context, period time.Time) error

	// PriorComposition returns the balance-composition row persisted
	// for the given period: its column names in table order and the
	// balance values. ok is false when the period has no row.
	PriorComposition(ctx context.Context, period time.Time) (columns []string, values []string, ok bool, err error)

	// LatestFacialRates returns the most recently persisted usury,
	// implicit and facial rates. ok is false when the table is empty.
	LatestFacialRates(ctx context.Context) (usury, implicit, facial float64, ok bool, err error)

	// ReferenceRates returns the reference master rows for one billing
	// month. Satisfies reconcile.ReferenceSource.
	ReferenceRates(ctx context.Context, billingMonth time.Time) ([]model.ReferenceRate, error)
}

// CompositionColumns is the balance-composition table's base column
// set, in persisted order. The balance step checks the historical
// row's columns against this before deriving monthly deltas.
var CompositionColumns = []string{"period", "total", "capital", "interest", "arrears", "other"}
