package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRecord is one row of the monthly balance-composition extract:
// a product's balance breakdown at cut-off. Only the columns the
// composition aggregates use are carried.
type BalanceRecord struct {
	ProductID        string
	ProductType      string
	Capital          decimal.Decimal // saldo capital
	CapitalArrears   decimal.Decimal // capital in arrears
	CapitalUSD       decimal.Decimal
	InterestCurrent  decimal.Decimal // current interest, local currency
	InterestArrears  decimal.Decimal
	InterestCurrUSD  decimal.Decimal
	InterestArrUSD   decimal.Decimal
	Insurance        decimal.Decimal
	HandlingFeeProd  decimal.Decimal // productive handling fee
	HandlingFeeUnpr  decimal.Decimal // unproductive handling fee
	PurchasesBalance decimal.Decimal
	AdvancesBalance  decimal.Decimal
	OtherCharges     decimal.Decimal
	CreditBalance    decimal.Decimal // balance in the customer's favor
	CreditBalanceUSD decimal.Decimal
	Period           time.Time
}
