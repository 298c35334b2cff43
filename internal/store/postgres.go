package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// Postgres is the production Store over a pgx connection pool. One
// pool serves the whole run; steps never open their own connections.
type Postgres struct {
	pool *pgxpool.Pool
}

// Open connects to the result store and verifies the connection.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to result store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging result store: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Append bulk-inserts rows inside one transaction via COPY.
func (p *Postgres) Append(ctx context.Context, table string, columns []string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning append to %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	if err := copyRows(ctx, tx, table, columns, rows); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing append to %s: %w", table, err)
	}
	return nil
}

// Replace drops and recreates the table as all-text columns, then
// copies the rows in. Only the raw-facts staging table uses this.
func (p *Postgres) Replace(ctx context.Context, table string, columns []string, rows []Row) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning replace of %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{table}.Sanitize()
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = pgx.Identifier{col}.Sanitize() + " text"
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("creating %s: %w", table, err)
	}

	if err := copyRows(ctx, tx, table, columns, rows); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing replace of %s: %w", table, err)
	}
	return nil
}

// PurgePeriod deletes the period's rows across every destination
// table and drops its staging table, in one transaction.
func (p *Postgres) PurgePeriod(ctx context.Context, period time.Time) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning purge: %w", err)
	}
	defer tx.Rollback(ctx)

	key := period.Format("2006-01-02")
	for table, col := range periodColumns {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			pgx.Identifier{table}.Sanitize(), pgx.Identifier{col}.Sanitize())
		if _, err := tx.Exec(ctx, stmt, key); err != nil {
			return fmt.Errorf("purging %s for period %s: %w", table, key, err)
		}
	}

	staging := pgx.Identifier{StagingTable(period)}.Sanitize()
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		return fmt.Errorf("dropping staging table for period %s: %w", key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing purge for period %s: %w", key, err)
	}
	return nil
}

// PriorComposition fetches the persisted balance-composition row for
// the period. Column names come back from the live table so the
// caller can verify the historical schema still matches.
func (p *Postgres) PriorComposition(ctx context.Context, period time.Time) ([]string, []string, bool, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT * FROM "+pgx.Identifier{TableBalanceComposition}.Sanitize()+" WHERE period = $1",
		period.Format("2006-01-02"))
	if err != nil {
		return nil, nil, false, fmt.Errorf("querying prior balance composition: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, nil, false, fmt.Errorf("reading prior balance composition: %w", err)
		}
		return nil, nil, false, nil
	}

	vals, err := rows.Values()
	if err != nil {
		return nil, nil, false, fmt.Errorf("decoding prior balance composition: %w", err)
	}

	n := len(CompositionColumns)
	if len(vals) < n {
		n = len(vals)
	}
	columns := make([]string, n)
	values := make([]string, n)
	for i := 0; i < n; i++ {
		columns[i] = string(rows.FieldDescriptions()[i].Name)
		values[i] = fmt.Sprint(vals[i])
	}
	return columns, values, true, nil
}

// LatestFacialRates returns the last persisted rates row.
func (p *Postgres) LatestFacialRates(ctx context.Context) (usury, implicit, facial float64, ok bool, err error) {
	err = p.pool.QueryRow(ctx,
		"SELECT usury_rate, implicit_rate, facial_rate FROM "+
			pgx.Identifier{TableFacialRates}.Sanitize()+" ORDER BY period DESC LIMIT 1").
		Scan(&usury, &implicit, &facial)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, 0, false, fmt.Errorf("querying latest facial rates: %w", err)
	}
	return usury, implicit, facial, true, nil
}

// ReferenceRates loads the reference master rows billed in the given
// month.
func (p *Postgres) ReferenceRates(ctx context.Context, billingMonth time.Time) ([]model.ReferenceRate, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT product_id, txn_date, txn_value::text, deferred_count, txn_code, product_type, original_rate_ea
		 FROM `+pgx.Identifier{TableReferenceMaster}.Sanitize()+`
		 WHERE billing_month = $1`,
		billingMonth)
	if err != nil {
		return nil, fmt.Errorf("querying reference master for %s: %w", billingMonth.Format("2006-01"), err)
	}
	defer rows.Close()

	var out []model.ReferenceRate
	for rows.Next() {
		var (
			r        model.ReferenceRate
			rawValue string
		)
		if err := rows.Scan(&r.ProductID, &r.TxnDate, &rawValue, &r.DeferredCount, &r.TxnCode, &r.ProductType, &r.OriginalRateEA); err != nil {
			return nil, fmt.Errorf("scanning reference master row: %w", err)
		}
		r.TxnValue, err = decimal.NewFromString(rawValue)
		if err != nil {
			return nil, fmt.Errorf("parsing reference transaction value %q: %w", rawValue, err)
		}
		r.BillingMonth = billingMonth
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading reference master: %w", err)
	}
	return out, nil
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows []Row) error {
	src := make([][]any, len(rows))
	for i, row := range rows {
		src[i] = row
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(src)); err != nil {
		return fmt.Errorf("copying %d rows into %s: %w", len(rows), table, err)
	}
	return nil
}
