// Package refdate provides month-boundary arithmetic for the
// reporting period of a dashboard run.
package refdate

import (
	"fmt"
	"time"
)

// Mode selects which boundary of the reference month a date request
// resolves to.
type Mode string

const (
	FirstDay     Mode = "first_day"      // first day of the reference month
	LastDay      Mode = "last_day"       // last day of the reference month
	PrevFirstDay Mode = "prev_first_day" // first day of the month before
	PrevLastDay  Mode = "prev_last_day"  // last day of the month before
)

// InvalidModeError reports a reference-date mode outside the four
// valid ones.
type InvalidModeError struct {
	Mode Mode
}

func (e InvalidModeError) Error() string {
	return fmt.Sprintf("invalid reference-date mode %q (valid: first_day, last_day, prev_first_day, prev_last_day)", string(e.Mode))
}

// periodLayout is the CLI/config format for a reporting period.
const periodLayout = "2006-01"

// Date is a reporting-period anchor, normalized to the first day of
// its month in UTC.
type Date struct {
	ref time.Time
}

// New anchors a Date on t's month.
func New(t time.Time) Date {
	return Date{ref: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// Parse reads a "YYYY-MM" period string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing period %q (want YYYY-MM): %w", s, err)
	}
	return New(t), nil
}

// First returns the first day of the reference month.
func (d Date) First() time.Time {
	return d.ref
}

// Last returns the last day of the reference month.
func (d Date) Last() time.Time {
	return d.ref.AddDate(0, 1, -1)
}

// PrevFirst returns the first day of the month before the reference
// month.
func (d Date) PrevFirst() time.Time {
	return d.ref.AddDate(0, -1, 0)
}

// PrevLast returns the last day of the month before the reference
// month.
func (d Date) PrevLast() time.Time {
	return d.ref.AddDate(0, 0, -1)
}

// Resolve returns the date selected by mode.
func (d Date) Resolve(mode Mode) (time.Time, error) {
	switch mode {
	case FirstDay:
		return d.First(), nil
	case LastDay:
		return d.Last(), nil
	case PrevFirstDay:
		return d.PrevFirst(), nil
	case PrevLastDay:
		return d.PrevLast(), nil
	default:
		return time.Time{}, InvalidModeError{Mode: mode}
	}
}

// Format resolves mode and renders it as "YYYY-MM-DD", the format the
// destination tables key periods by.
func (d Date) Format(mode Mode) (string, error) {
	t, err := d.Resolve(mode)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
