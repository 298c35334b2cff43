package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcboard-dev/tcboard/internal/model"
)

var testPeriod = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

func TestStagingTable_Name(t *testing.T) {
	assert.Equal(t, "txn_facts_2024_01", StagingTable(testPeriod))
}

func TestMemory_AppendAndPurge(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	cols := []string{"period", "segment", "balance"}
	require.NoError(t, mem.Append(ctx, TableSegmentation, cols, []Row{
		{"2024-01-31", "purchases", "100.00"},
		{"2023-12-31", "purchases", "90.00"},
	}))

	require.NoError(t, mem.PurgePeriod(ctx, testPeriod))

	_, rows := mem.Table(TableSegmentation)
	require.Len(t, rows, 1)
	assert.Equal(t, "2023-12-31", rows[0][0])
}

func TestMemory_AppendColumnMismatch(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	cols := []string{"period", "segment", "balance"}
	require.NoError(t, mem.Append(ctx, TableSegmentation, cols, []Row{{"2024-01-31", "advances", "1.00"}}))

	err := mem.Append(ctx, TableSegmentation, []string{"period", "class", "balance"}, []Row{{"2024-01-31", "advances", "1.00"}})
	require.Error(t, err)
}

func TestMemory_PriorComposition(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	_, _, ok, err := mem.PriorComposition(ctx, testPeriod)
	require.NoError(t, err)
	assert.False(t, ok)

	cols := append(append([]string(nil), CompositionColumns...), "var_total")
	require.NoError(t, mem.Append(ctx, TableBalanceComposition, cols, []Row{
		{"2024-01-31", "1000.00", "800.00", "50.00", "100.00", "50.00", "0.000000"},
	}))

	gotCols, values, ok, err := mem.PriorComposition(ctx, testPeriod)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, CompositionColumns, gotCols)
	assert.Equal(t, []string{"2024-01-31", "1000.00", "800.00", "50.00", "100.00", "50.00"}, values)
}

func TestMemory_LatestFacialRates(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	_, _, _, ok, err := mem.LatestFacialRates(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	cols := []string{"period", "usury_rate", "implicit_rate", "facial_rate"}
	require.NoError(t, mem.Append(ctx, TableFacialRates, cols, []Row{
		{"2023-12-31", 28.0, 24.0, 21.5},
		{"2024-01-31", 28.5, 24.1, 21.9},
	}))

	usury, implicit, facial, ok, err := mem.LatestFacialRates(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 28.5, usury)
	assert.Equal(t, 24.1, implicit)
	assert.Equal(t, 21.9, facial)
}

func TestMemory_ReferenceRates(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	month := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mem.SeedReference(month, model.ReferenceRate{
		ProductID:      "4111",
		TxnValue:       decimal.NewFromInt(100),
		OriginalRateEA: 30,
	})

	rows, err := mem.ReferenceRates(ctx, month)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4111", rows[0].ProductID)

	empty, err := mem.ReferenceRates(ctx, month.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
