// Package pipeline orchestrates the monthly dashboard recomputation:
// purge, ingest, reconcile, aggregate, persist. Steps always run in
// the same order; each completed step leaves an audit entry.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/bucket"
	"github.com/tcboard-dev/tcboard/internal/extract"
	"github.com/tcboard-dev/tcboard/internal/income"
	"github.com/tcboard-dev/tcboard/internal/model"
	"github.com/tcboard-dev/tcboard/internal/rates"
	"github.com/tcboard-dev/tcboard/internal/reconcile"
	"github.com/tcboard-dev/tcboard/internal/refdate"
	"github.com/tcboard-dev/tcboard/internal/runlog"
	"github.com/tcboard-dev/tcboard/internal/sensitivity"
	"github.com/tcboard-dev/tcboard/internal/store"
)

// Pipeline runs the monthly recomputation against an injected store.
type Pipeline struct {
	Store store.Store
	Out   io.Writer // progress narration; silent when nil

	ChunkSize      int // fact extract chunk size; reader default when 0
	LookbackMonths int // reference scan window; reconciler default when 0
}

// Inputs is one run's operator-supplied input set.
type Inputs struct {
	Period   refdate.Date
	Facts    io.Reader
	Balances io.Reader

	UsuryCurrent float64 // regulatory ceiling at cut-off, EA percent
	UsuryNext    float64 // ceiling announced for the following month
	ImplicitRate float64 // implicit portfolio rate, EA percent
}

// Summary is what a completed run reports back.
type Summary struct {
	RunID  string
	Period time.Time

	FactRows    int
	BalanceRows int

	Matched       int
	Fallback      int
	DuplicateKeys int

	Warnings []string
	Audit    []runlog.Entry
}

// Run recomputes every dashboard table for the period. The period's
// prior rows are purged first, so re-running a period converges to the
// same state.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Summary, error) {
	period := in.Period.Last()
	sum := &Summary{RunID: uuid.NewString(), Period: period}
	p.logf("run %s: recomputing dashboard for period %s", sum.RunID, dateKey(period))

	step := func(name, detail string) {
		sum.Audit = append(sum.Audit, runlog.Entry{
			Timestamp: time.Now().UTC(),
			RunID:     sum.RunID,
			Period:    dateKey(period),
			Step:      name,
			Details:   detail,
		})
		p.logf("%s: %s", name, detail)
	}
	warn := func(msg string) {
		sum.Warnings = append(sum.Warnings, msg)
		p.logf("warning: %s", msg)
	}

	if err := p.Store.PurgePeriod(ctx, period); err != nil {
		return nil, fmt.Errorf("purging period %s: %w", dateKey(period), err)
	}
	step("purge", "cleared the period's prior rows")

	facts, err := p.ingestFacts(ctx, in, period, warn)
	if err != nil {
		return nil, err
	}
	sum.FactRows = len(facts)
	step("ingest facts", fmt.Sprintf("staged %d purchase and advance transactions", len(facts)))

	bals, err := extract.ReadBalances(in.Balances)
	if err != nil {
		return nil, err
	}
	sum.BalanceRows = len(bals)
	step("ingest balances", fmt.Sprintf("read %d balance rows", len(bals)))

	comp, err := p.composeStep(ctx, bals, in.Period)
	if err != nil {
		return nil, err
	}
	if err := p.Store.Append(ctx, store.TableBalanceComposition, compositionColumns, []store.Row{compositionRow(comp)}); err != nil {
		return nil, fmt.Errorf("persisting balance composition: %w", err)
	}
	step("balance composition", fmt.Sprintf("total balance %s", comp.Total.StringFixed(2)))

	if err := p.Store.Append(ctx, store.TableCalendar, calendarColumns,
		[]store.Row{calendarRow(period, sum.FactRows, sum.BalanceRows, sum.RunID)}); err != nil {
		return nil, fmt.Errorf("persisting calendar row: %w", err)
	}
	step("calendar", "recorded the period")

	seg := Segment(facts, period)
	if err := p.Store.Append(ctx, store.TableSegmentation, segmentationColumns, segmentationRows(seg)); err != nil {
		return nil, fmt.Errorf("persisting segmentation: %w", err)
	}
	step("segmentation", "split balance into four business classes")

	rec := &reconcile.Reconciler{Source: p.Store, LookbackMonths: p.LookbackMonths}
	res, err := rec.Reconcile(ctx, in.Period, facts)
	if err != nil {
		return nil, err
	}
	sum.Matched, sum.Fallback, sum.DuplicateKeys = res.Matched, res.Fallback, res.DuplicateKeys
	if res.DuplicateKeys > 0 {
		warn(fmt.Sprintf("reference master held %d duplicate composite keys; kept the most recent billing month's rate", res.DuplicateKeys))
	}
	step("reconcile", fmt.Sprintf("matched %d of %d transactions, %d on fallback rate", res.Matched, len(facts), res.Fallback))

	fac := Facial(res.Records, in.UsuryCurrent, in.ImplicitRate, period)
	prevUsury, prevImplicit, prevFacial, havePrior, err := p.Store.LatestFacialRates(ctx)
	if err != nil {
		return nil, err
	}
	if havePrior {
		applyPriorFacial(&fac, prevUsury, prevImplicit, prevFacial)
	}
	if err := p.Store.Append(ctx, store.TableFacialRates, facialColumns, []store.Row{facialRow(fac)}); err != nil {
		return nil, fmt.Errorf("persisting facial rates: %w", err)
	}
	step("facial rates", fmt.Sprintf("facial %.2f, usury %.2f", fac.Facial, fac.Usury))

	if err := p.bucketStep(ctx, res.Records); err != nil {
		return nil, err
	}
	step("rate bucketing", "persisted exact-rate and band balances for both rate views")

	s100 := sensitivity.FixedShifts(in.UsuryCurrent, 1, res.Records, period)
	if err := p.Store.Append(ctx, store.TableShift100, shiftColumns, shiftRows(s100)); err != nil {
		return nil, fmt.Errorf("persisting 100bps shifts: %w", err)
	}
	step("shift 100bps", impactDetail(s100))

	hist := historicalImpact(in.UsuryCurrent, in.UsuryNext, res.Records, period)
	if err := p.Store.Append(ctx, store.TableShiftHistorical, historicalColumns, []store.Row{historicalRow(hist)}); err != nil {
		return nil, fmt.Errorf("persisting historical shift: %w", err)
	}
	step("shift historical", fmt.Sprintf("ceiling moves %.2f points next month", hist.ShiftPct))

	sweep := sensitivity.Sweep(in.UsuryCurrent, res.Records, period)
	if err := p.Store.Append(ctx, store.TableSweep, shiftColumns, shiftRows(sweep)); err != nil {
		return nil, fmt.Errorf("persisting sensitivity sweep: %w", err)
	}
	step("sensitivity sweep", fmt.Sprintf("%d shift scenarios", len(sweep)))

	ests, delta := income.Estimate(res.Records, in.UsuryCurrent, period)
	if err := p.Store.Append(ctx, store.TableIncomeMV, incomeColumns, incomeRows(ests)); err != nil {
		return nil, fmt.Errorf("persisting income estimates: %w", err)
	}
	if err := p.Store.Append(ctx, store.TableIncomeDelta, incomeDeltaColumns, []store.Row{incomeDeltaRow(delta)}); err != nil {
		return nil, fmt.Errorf("persisting income delta: %w", err)
	}
	step("income estimate", fmt.Sprintf("repricing delta %s", delta.Delta.StringFixed(2)))

	s450 := sensitivity.FixedShifts(in.UsuryCurrent, 4.5, res.Records, period)
	if err := p.Store.Append(ctx, store.TableShift450, shiftColumns, shiftRows(s450)); err != nil {
		return nil, fmt.Errorf("persisting 450bps shifts: %w", err)
	}
	step("shift 450bps", impactDetail(s450))

	p.logf("run %s complete", sum.RunID)
	return sum, nil
}

// ingestFacts reads the transaction extract, validates its period
// against the requested one and replaces the staging table.
func (p *Pipeline) ingestFacts(ctx context.Context, in Inputs, period time.Time, warn func(string)) ([]model.TransactionRecord, error) {
	fr := &extract.FactReader{ChunkSize: p.ChunkSize}
	facts, err := fr.ReadAll(in.Facts)
	if err != nil {
		return nil, err
	}
	if len(facts.Records) == 0 {
		return nil, fmt.Errorf("fact extract holds no purchase or advance transactions")
	}
	if !facts.Period.Equal(period) {
		return nil, fmt.Errorf("fact extract is cut at %s, requested period is %s",
			dateKey(facts.Period), dateKey(period))
	}
	for _, w := range facts.Warnings {
		warn(w)
	}
	if err := p.Store.Replace(ctx, store.StagingTable(period), stagingColumns, stagingRows(facts.Records)); err != nil {
		return nil, fmt.Errorf("staging fact extract: %w", err)
	}
	return facts.Records, nil
}

// composeStep aggregates the balance extract and attaches the prior
// month's figures when a historical row exists.
func (p *Pipeline) composeStep(ctx context.Context, bals []model.BalanceRecord, d refdate.Date) (model.BalanceComposition, error) {
	comp := Compose(bals, d.Last())
	columns, values, ok, err := p.Store.PriorComposition(ctx, d.PrevLast())
	if err != nil {
		return model.BalanceComposition{}, err
	}
	if ok {
		if err := applyPrior(&comp, columns, values); err != nil {
			return model.BalanceComposition{}, err
		}
	}
	return comp, nil
}

// bucketStep persists both granularities of the banded balance table
// for the current and the original rate view.
func (p *Pipeline) bucketStep(ctx context.Context, recs []model.ReconciledRate) error {
	for _, rateType := range []string{model.RateTypeCurrent, model.RateTypeOriginal} {
		groups, err := bucket.ByRate(recs, rateType)
		if err != nil {
			return err
		}
		rows := append(rateGroupRows(groups), bandRows(bucket.ByBand(groups))...)
		if err := p.Store.Append(ctx, store.TableBalanceByBand, bandColumns, rows); err != nil {
			return fmt.Errorf("persisting %s buckets: %w", rateType, err)
		}
	}
	return nil
}

// historicalImpact evaluates the actual announced usury move. A flat
// ceiling still writes an explicit zero row so the BI series has no
// gaps.
func historicalImpact(usuryCurrent, usuryNext float64, recs []model.ReconciledRate, period time.Time) model.HistoricalImpact {
	capital := decimal.Zero
	for _, rec := range recs {
		capital = capital.Add(rec.Balance)
	}

	h := model.HistoricalImpact{
		Period:   period,
		Capital:  capital.Round(2),
		Usury:    usuryCurrent,
		ShiftPct: rates.Round2(usuryNext - usuryCurrent),
	}
	h.Label = fmt.Sprintf("shift %d bps", int(math.Round(h.ShiftPct*100)))
	if h.ShiftPct == 0 {
		// Flat ceiling still writes an explicit zero row.
		h.Exposed = decimal.Zero
		h.Impact = decimal.Zero
		return h
	}
	h.Exposed, h.Impact = sensitivity.ComputeImpact(usuryCurrent, h.ShiftPct, recs)
	return h
}

// AppendScenario persists one operator-supplied usury simulation row.
func AppendScenario(ctx context.Context, st store.Store, s model.UsuryScenario) error {
	if err := st.Append(ctx, store.TableScenarios, scenarioColumns, []store.Row{scenarioRow(s)}); err != nil {
		return fmt.Errorf("persisting usury scenario: %w", err)
	}
	return nil
}

func impactDetail(shifts []model.ShiftImpact) string {
	up, down := shifts[0], shifts[1]
	return fmt.Sprintf("%s impact %s, %s impact %s",
		up.Label, up.Impact.StringFixed(2), down.Label, down.Impact.StringFixed(2))
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Out == nil {
		return
	}
	fmt.Fprintf(p.Out, format+"\n", args...)
}
