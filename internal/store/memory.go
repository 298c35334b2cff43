package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// Memory is an in-process Store used by tests and dry runs. It keeps
// the same table/column discipline as the Postgres store so pipeline
// tests exercise real row shapes.
type Memory struct {
	tables    map[string]*memTable
	reference map[string][]model.ReferenceRate
}

type memTable struct {
	columns []string
	rows    []Row
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tables:    make(map[string]*memTable),
		reference: make(map[string][]model.ReferenceRate),
	}
}

// SeedReference loads reference master rows for a billing month.
func (m *Memory) SeedReference(billingMonth time.Time, rows ...model.ReferenceRate) {
	key := billingMonth.Format("2006-01")
	m.reference[key] = append(m.reference[key], rows...)
}

// Table exposes a table's columns and rows to assertions.
func (m *Memory) Table(name string) (columns []string, rows []Row) {
	t, ok := m.tables[name]
	if !ok {
		return nil, nil
	}
	return t.columns, t.rows
}

func (m *Memory) Append(_ context.Context, table string, columns []string, rows []Row) error {
	t, ok := m.tables[table]
	if !ok {
		t = &memTable{columns: columns}
		m.tables[table] = t
	}
	if len(t.columns) != len(columns) {
		return fmt.Errorf("appending to %s: %d columns, table has %d", table, len(columns), len(t.columns))
	}
	for i := range columns {
		if t.columns[i] != columns[i] {
			return fmt.Errorf("appending to %s: column %d is %q, table has %q", table, i, columns[i], t.columns[i])
		}
	}
	t.rows = append(t.rows, rows...)
	return nil
}

func (m *Memory) Replace(_ context.Context, table string, columns []string, rows []Row) error {
	m.tables[table] = &memTable{columns: columns, rows: rows}
	return nil
}

func (m *Memory) PurgePeriod(_ context.Context, period time.Time) error {
	key := period.Format("2006-01-02")
	for table, col := range periodColumns {
		t, ok := m.tables[table]
		if !ok {
			continue
		}
		idx := indexOf(t.columns, col)
		if idx < 0 {
			continue
		}
		kept := t.rows[:0]
		for _, row := range t.rows {
			if fmt.Sprint(row[idx]) != key {
				kept = append(kept, row)
			}
		}
		t.rows = kept
	}
	delete(m.tables, StagingTable(period))
	return nil
}

func (m *Memory) PriorComposition(_ context.Context, period time.Time) ([]string, []string, bool, error) {
	t, ok := m.tables[TableBalanceComposition]
	if !ok {
		return nil, nil, false, nil
	}
	idx := indexOf(t.columns, "period")
	if idx < 0 {
		return nil, nil, false, fmt.Errorf("balance composition table has no period column")
	}
	key := period.Format("2006-01-02")
	for _, row := range t.rows {
		if fmt.Sprint(row[idx]) != key {
			continue
		}
		n := len(CompositionColumns)
		if len(t.columns) < n {
			n = len(t.columns)
		}
		values := make([]string, n)
		for i := 0; i < n; i++ {
			values[i] = fmt.Sprint(row[i])
		}
		return append([]string(nil), t.columns[:n]...), values, true, nil
	}
	return nil, nil, false, nil
}

func (m *Memory) LatestFacialRates(_ context.Context) (usury, implicit, facial float64, ok bool, err error) {
	t, found := m.tables[TableFacialRates]
	if !found || len(t.rows) == 0 {
		return 0, 0, 0, false, nil
	}
	last := t.rows[len(t.rows)-1]
	for i, col := range []string{"usury_rate", "implicit_rate", "facial_rate"} {
		idx := indexOf(t.columns, col)
		if idx < 0 {
			return 0, 0, 0, false, fmt.Errorf("facial rates table has no %s column", col)
		}
		v, err := toFloat(last[idx])
		if err != nil {
			return 0, 0, 0, false, fmt.Errorf("reading %s: %w", col, err)
		}
		switch i {
		case 0:
			usury = v
		case 1:
			implicit = v
		case 2:
			facial = v
		}
	}
	return usury, implicit, facial, true, nil
}

func (m *Memory) ReferenceRates(_ context.Context, billingMonth time.Time) ([]model.ReferenceRate, error) {
	return m.reference[billingMonth.Format("2006-01")], nil
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}
