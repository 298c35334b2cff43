// Package rates converts between the rate expressions used across the
// dashboard: nominal period rates, effective annual (EA) rates and
// monthly-value (MV, 30/360) rates. All rates are percentages.
package rates

import "math"

// Round2 rounds a percentage to two decimal places, the precision the
// destination tables reconcile at.
func Round2(pct float64) float64 {
	return math.Round(pct*100) / 100
}

// ToEffectiveAnnual compounds a nominal period rate over twelve
// periods: (((1 + r/100)^12) - 1) * 100, rounded to two decimals.
// Total over r > -100.
func ToEffectiveAnnual(nominalPct float64) float64 {
	return Round2((math.Pow(1+nominalPct/100, 12) - 1) * 100)
}

// ToMonthlyValue de-annualizes an effective annual rate onto a 30/360
// month: (((1 + r/100)^(30/360)) - 1) * 100, rounded to two decimals.
func ToMonthlyValue(effectiveAnnualPct float64) float64 {
	return Round2((math.Pow(1+effectiveAnnualPct/100, 30.0/360.0) - 1) * 100)
}
