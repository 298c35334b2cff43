package model

import "math"

// RateBand is one of the fixed annual-rate intervals balances are
// bucketed into. Intervals are half-open (Lower, Upper]: a rate
// exactly on a boundary belongs to the band below it.
type RateBand struct {
	Label string
	Lower float64 // exclusive; -Inf for the first band
	Upper float64 // inclusive; +Inf for the last band
}

// Contains reports whether rate falls inside the band.
func (b RateBand) Contains(rate float64) bool {
	return rate > b.Lower && rate <= b.Upper
}

// Bands returns the 13 fixed rate bands in ascending order. The slice
// is freshly allocated; the band table itself never changes.
func Bands() []RateBand {
	bounds := []float64{math.Inf(-1), 0, 1, 11, 21, 24, 26, 26.5, 27, 27.5, 28, 29, 30, math.Inf(1)}
	labels := []string{
		"a. 0%",
		"b. 0.1% - 0.9%",
		"c. 1% - 10.9%",
		"d. 11% - 20.9%",
		"e. 21% - 23.9%",
		"f. 24% - 25.9%",
		"g. 26% - 26.4%",
		"h. 26.5% - 26.9%",
		"i. 27% - 27.4%",
		"j. 27.5% - 27.9%",
		"k. 28% - 28.9%",
		"l. 29% - 29.9%",
		"m. >30%",
	}
	bands := make([]RateBand, len(labels))
	for i := range labels {
		bands[i] = RateBand{Label: labels[i], Lower: bounds[i], Upper: bounds[i+1]}
	}
	return bands
}

// BandFor returns the band containing rate. Every real rate falls in
// exactly one band, so the lookup always succeeds.
func BandFor(rate float64) RateBand {
	bands := Bands()
	for _, b := range bands {
		if b.Contains(rate) {
			return b
		}
	}
	return bands[len(bands)-1] // +Inf upper bound makes this unreachable
}
