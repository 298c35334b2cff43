package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate-type labels for the bucketed balance views.
const (
	RateTypeCurrent  = "current rate"
	RateTypeOriginal = "original rate"
)

// Income scenario labels for the monthly-value income estimates.
const (
	IncomeScenarioCurrent  = "income at current rate"
	IncomeScenarioOriginal = "income at original rate"
)

// BalanceComposition is one period's balance breakdown with its
// month-over-month variation and the prior month's values.
type BalanceComposition struct {
	Period   time.Time
	Total    decimal.Decimal
	Capital  decimal.Decimal
	Interest decimal.Decimal
	Arrears  decimal.Decimal
	Other    decimal.Decimal

	// Ratios against the prior month: current/previous - 1.
	VarTotal    decimal.Decimal
	VarCapital  decimal.Decimal
	VarInterest decimal.Decimal
	VarArrears  decimal.Decimal
	VarOther    decimal.Decimal

	// The prior month's values, carried for the BI target lines.
	PrevTotal    decimal.Decimal
	PrevCapital  decimal.Decimal
	PrevInterest decimal.Decimal
	PrevArrears  decimal.Decimal
	PrevOther    decimal.Decimal
}

// SegmentedBalances splits a period's outstanding balance by business
// class. The classes partition the dataset: portfolio purchases are
// carved out first, then full payers, then purchases and advances.
type SegmentedBalances struct {
	Period            time.Time
	PortfolioPurchase decimal.Decimal
	FullPayers        decimal.Decimal
	Purchases         decimal.Decimal
	Advances          decimal.Decimal
}

// FacialRates is one period's usury, implicit and facial rate with
// variation against the last persisted period.
type FacialRates struct {
	Period   time.Time
	Usury    float64
	Implicit float64
	Facial   float64

	VarUsury    float64
	VarImplicit float64
	VarFacial   float64

	PrevUsury    float64
	PrevImplicit float64
	PrevFacial   float64
}

// RateGroup is the balance carried at one exact effective-annual rate
// for one rate type (current or original).
type RateGroup struct {
	Rate     float64
	Balance  decimal.Decimal
	Period   time.Time
	RateType string
	Band     RateBand
}

// BandedBalance is the balance summed over one rate band for one rate
// type.
type BandedBalance struct {
	Band     RateBand
	Balance  decimal.Decimal
	Period   time.Time
	RateType string
}

// ShiftImpact is the exposed balance and P&L impact of one usury-rate
// shift scenario.
type ShiftImpact struct {
	Period   time.Time
	ShiftPct float64 // signed shift in percentage points
	Exposed  decimal.Decimal
	Impact   decimal.Decimal
	Label    string
}

// HistoricalImpact is the ShiftImpact of the actual usury change
// between the cut-off month and the next, alongside the period's
// capital balance.
type HistoricalImpact struct {
	Period   time.Time
	Capital  decimal.Decimal
	Usury    float64
	ShiftPct float64
	Exposed  decimal.Decimal
	Impact   decimal.Decimal
	Label    string
}

// IncomeEstimate is a period's projected monthly income under one
// rate scenario.
type IncomeEstimate struct {
	Period   time.Time
	Income   decimal.Decimal
	Scenario string
}

// IncomeDelta is the difference between the original-rate and
// current-rate income estimates, with the cut-off usury rate
// expressed as a monthly-value rate.
type IncomeDelta struct {
	Period  time.Time
	Delta   decimal.Decimal
	UsuryMV float64
}

// UsuryScenario is an operator-supplied distribution of simulated
// usury outcomes for a period.
type UsuryScenario struct {
	Period time.Time
	Min    float64
	P25    float64
	P95    float64
	Max    float64
	Mean   float64
}
