// Package extract parses the two monthly extract files the dashboard
// run ingests: the balance-composition extract and the transaction
// fact extract.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// The balance-composition extract is semicolon-delimited and
// headerless with 30 columns.
const (
	balanceNumFields = 30

	balColProduct      = 0
	balColProductType  = 2
	balColCapital      = 10
	balColIntCurrent   = 12
	balColIntArrears   = 13
	balColInsurance    = 14
	balColFeeProd      = 15
	balColFeeUnprod    = 16
	balColPurchases    = 17
	balColAdvances     = 19
	balColCapArrears   = 21
	balColOtherCharges = 22
	balColCredit       = 23
	balColCapitalUSD   = 24
	balColIntCurUSD    = 25
	balColIntArrUSD    = 26
	balColCreditUSD    = 27
	balColPeriod       = 29
)

// ReadBalances decodes the balance-composition extract.
func ReadBalances(r io.Reader) ([]model.BalanceRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = balanceNumFields

	var out []model.BalanceRecord
	for i := 0; ; i++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading balance extract: %w", err)
		}
		row, err := parseBalanceRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseBalanceRow(rec []string) (model.BalanceRecord, error) {
	period, err := time.Parse(factPeriodLayout, strings.TrimSpace(rec[balColPeriod]))
	if err != nil {
		return model.BalanceRecord{}, fmt.Errorf("parsing period %q: %w", rec[balColPeriod], err)
	}

	row := model.BalanceRecord{
		ProductID:   strings.TrimSpace(rec[balColProduct]),
		ProductType: strings.TrimSpace(rec[balColProductType]),
		Period:      period,
	}

	for _, f := range []struct {
		col  int
		name string
		dst  *decimal.Decimal
	}{
		{balColCapital, "capital", &row.Capital},
		{balColCapArrears, "capital in arrears", &row.CapitalArrears},
		{balColCapitalUSD, "capital USD", &row.CapitalUSD},
		{balColIntCurrent, "current interest", &row.InterestCurrent},
		{balColIntArrears, "arrears interest", &row.InterestArrears},
		{balColIntCurUSD, "current interest USD", &row.InterestCurrUSD},
		{balColIntArrUSD, "arrears interest USD", &row.InterestArrUSD},
		{balColInsurance, "insurance", &row.Insurance},
		{balColFeeProd, "productive handling fee", &row.HandlingFeeProd},
		{balColFeeUnprod, "unproductive handling fee", &row.HandlingFeeUnpr},
		{balColPurchases, "purchases balance", &row.PurchasesBalance},
		{balColAdvances, "advances balance", &row.AdvancesBalance},
		{balColOtherCharges, "other charges", &row.OtherCharges},
		{balColCredit, "credit balance", &row.CreditBalance},
		{balColCreditUSD, "credit balance USD", &row.CreditBalanceUSD},
	} {
		v, err := decimal.NewFromString(strings.TrimSpace(rec[f.col]))
		if err != nil {
			return model.BalanceRecord{}, fmt.Errorf("parsing %s %q: %w", f.name, rec[f.col], err)
		}
		*f.dst = v
	}
	return row, nil
}
