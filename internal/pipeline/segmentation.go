package pipeline

import (
	"time"

	"github.com/tcboard-dev/tcboard/internal/model"
)

// portfolioPurchaseCodes are the movement codes that identify bought
// portfolio. They take precedence over every other classification.
var portfolioPurchaseCodes = map[string]bool{
	"0I": true, "1C": true, "1D": true, "4I": true, "6H": true,
	"6I": true, "6K": true, "6L": true, "6V": true, "7A": true,
	"7B": true, "9Q": true, "9S": true, "A0": true, "AW": true,
	"BW": true, "D0": true, "DU": true, "E8": true, "EB": true,
	"F7": true, "F8": true, "H7": true, "H8": true, "HK": true,
	"HL": true, "I7": true, "I8": true, "SE": true,
}

// Segment partitions the period's outstanding balance into the four
// business classes. The order matters: portfolio purchases are carved
// out first regardless of transaction type, then full payers
// (deferred count of exactly 1), then the remainder splits into
// purchases and advances by transaction type.
func Segment(recs []model.TransactionRecord, period time.Time) model.SegmentedBalances {
	s := model.SegmentedBalances{Period: period}
	for _, rec := range recs {
		switch {
		case portfolioPurchaseCodes[rec.TxnCode]:
			s.PortfolioPurchase = s.PortfolioPurchase.Add(rec.Balance)
		case rec.DeferredCount == 1:
			s.FullPayers = s.FullPayers.Add(rec.Balance)
		case rec.TxnType == "1" || rec.TxnType == "C":
			s.Purchases = s.Purchases.Add(rec.Balance)
		case rec.TxnType == "2" || rec.TxnType == "V":
			s.Advances = s.Advances.Add(rec.Balance)
		}
	}
	s.PortfolioPurchase = s.PortfolioPurchase.Round(2)
	s.FullPayers = s.FullPayers.Round(2)
	s.Purchases = s.Purchases.Round(2)
	s.Advances = s.Advances.Round(2)
	return s
}
