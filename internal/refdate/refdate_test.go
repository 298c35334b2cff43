package refdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), d.First())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("02-2024")
	require.Error(t, err)
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		period string
		mode   Mode
		want   string
	}{
		{"first day", "2024-03", FirstDay, "2024-03-01"},
		{"last day", "2024-03", LastDay, "2024-03-31"},
		{"last day leap february", "2024-02", LastDay, "2024-02-29"},
		{"last day plain february", "2023-02", LastDay, "2023-02-28"},
		{"prev first across year", "2024-01", PrevFirstDay, "2023-12-01"},
		{"prev last across year", "2024-01", PrevLastDay, "2023-12-31"},
		{"prev last thirty days", "2024-05", PrevLastDay, "2024-04-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.period)
			require.NoError(t, err)
			got, err := d.Format(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_InvalidMode(t *testing.T) {
	d, err := Parse("2024-03")
	require.NoError(t, err)

	_, err = d.Resolve(Mode("mid_month"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &InvalidModeError{})
	assert.Contains(t, err.Error(), "mid_month")
}

func TestNew_NormalizesDayAndZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	d := New(time.Date(2024, 7, 19, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), d.First())
	assert.Equal(t, time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), d.Last())
}
