package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// The transaction fact extract is semicolon-delimited and headerless
// with 61 columns; only ten are kept.
const (
	factNumFields = 61

	factColProduct     = 0
	factColTxnDate     = 2
	factColTxnType     = 4
	factColTxnCode     = 5
	factColTxnValue    = 17
	factColDeferred    = 19
	factColBalance     = 21
	factColProductType = 39
	factColPeriod      = 59
	factColRate        = 60 // corrected nominal rate (tasa_interes_1)

	factPeriodLayout = "20060102"
)

// DefaultChunkSize bounds how many extract rows are decoded per chunk.
const DefaultChunkSize = 500000

// keptTxnTypes are the transaction types that carry balance: purchases
// (1/C) and advances (2/V). Everything else is dropped.
var keptTxnTypes = map[string]bool{"1": true, "2": true, "C": true, "V": true}

// FactReader reads the transaction fact extract in bounded chunks.
type FactReader struct {
	// ChunkSize caps rows decoded per chunk; DefaultChunkSize when 0.
	ChunkSize int
}

// FactResult is the parsed fact extract plus non-fatal data-quality
// notes gathered while reading.
type FactResult struct {
	Records  []model.TransactionRecord
	Period   time.Time
	Warnings []string
}

// ReadAll decodes the whole extract. Rows with a transaction type
// other than purchase/advance are filtered out. A trailing record in
// a chunk with a null required column is dropped with a warning, not
// an error: the upstream job occasionally truncates the last line.
func (fr *FactReader) ReadAll(r io.Reader) (*FactResult, error) {
	size := fr.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = factNumFields

	res := &FactResult{}
	rowKey := 0
	line := 0
	for {
		chunk, err := readChunk(cr, size)
		if err != nil {
			return nil, fmt.Errorf("reading fact extract: %w", err)
		}
		if len(chunk) == 0 {
			break
		}

		if i := len(chunk) - 1; hasNullRequired(chunk[i]) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("dropped trailing record at row %d: null in required column", line+i+1))
			chunk = chunk[:i]
		}

		for i, rec := range chunk {
			if !keptTxnTypes[strings.TrimSpace(rec[factColTxnType])] {
				continue
			}
			txn, err := parseFactRow(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line+i+1, err)
			}
			txn.RowKey = rowKey
			rowKey++
			if res.Period.IsZero() {
				res.Period = txn.Period
			}
			res.Records = append(res.Records, txn)
		}
		line += len(chunk)
	}

	// Every row carries the extract's single reporting period.
	for i := range res.Records {
		res.Records[i].Period = res.Period
	}
	return res, nil
}

// readChunk pulls up to size records, stopping cleanly at EOF.
func readChunk(cr *csv.Reader, size int) ([][]string, error) {
	var chunk [][]string
	for len(chunk) < size {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		chunk = append(chunk, rec)
	}
	return chunk, nil
}

// requiredFactCols must be non-null for a record to be typed.
var requiredFactCols = []int{factColRate, factColTxnValue, factColDeferred, factColBalance, factColPeriod}

func hasNullRequired(rec []string) bool {
	for _, col := range requiredFactCols {
		if strings.TrimSpace(rec[col]) == "" {
			return true
		}
	}
	return false
}

func parseFactRow(rec []string) (model.TransactionRecord, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(rec[factColRate]), 64)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing nominal rate %q: %w", rec[factColRate], err)
	}

	value, err := decimal.NewFromString(strings.TrimSpace(rec[factColTxnValue]))
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing transaction value %q: %w", rec[factColTxnValue], err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(rec[factColBalance]))
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing balance %q: %w", rec[factColBalance], err)
	}

	// Deferred counts arrive as float-formatted strings ("1.0").
	deferredF, err := strconv.ParseFloat(strings.TrimSpace(rec[factColDeferred]), 64)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing deferred count %q: %w", rec[factColDeferred], err)
	}

	period, err := time.Parse(factPeriodLayout, strings.TrimSpace(rec[factColPeriod]))
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing period %q: %w", rec[factColPeriod], err)
	}

	return model.TransactionRecord{
		ProductID:     strings.TrimSpace(rec[factColProduct]),
		TxnDate:       strings.TrimSpace(rec[factColTxnDate]),
		TxnType:       strings.TrimSpace(rec[factColTxnType]),
		TxnCode:       strings.TrimSpace(rec[factColTxnCode]),
		NominalRate:   rate,
		TxnValue:      value,
		DeferredCount: int(deferredF),
		Balance:       balance,
		ProductType:   strings.TrimSpace(rec[factColProductType]),
		Period:        period,
	}, nil
}
