package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcboard-dev/tcboard/internal/model"
)

func TestSegment_PartitionOrder(t *testing.T) {
	recs := []model.TransactionRecord{
		// Portfolio purchase wins even though it is also a full payer.
		{TxnCode: "6H", TxnType: "1", DeferredCount: 1, Balance: dec("100")},
		{TxnCode: "SE", TxnType: "2", DeferredCount: 24, Balance: dec("200")},
		// Full payer wins over the purchase type.
		{TxnCode: "00", TxnType: "1", DeferredCount: 1, Balance: dec("50")},
		{TxnCode: "00", TxnType: "C", DeferredCount: 12, Balance: dec("400")},
		{TxnCode: "00", TxnType: "1", DeferredCount: 36, Balance: dec("600")},
		{TxnCode: "00", TxnType: "V", DeferredCount: 6, Balance: dec("300")},
		{TxnCode: "00", TxnType: "2", DeferredCount: 18, Balance: dec("700")},
	}

	s := Segment(recs, compPeriod)

	assert.Equal(t, "300.00", s.PortfolioPurchase.StringFixed(2))
	assert.Equal(t, "50.00", s.FullPayers.StringFixed(2))
	assert.Equal(t, "1000.00", s.Purchases.StringFixed(2))
	assert.Equal(t, "1000.00", s.Advances.StringFixed(2))
	assert.Equal(t, compPeriod, s.Period)
}

func TestSegment_Empty(t *testing.T) {
	s := Segment(nil, compPeriod)
	assert.Equal(t, "0.00", s.PortfolioPurchase.StringFixed(2))
	assert.Equal(t, "0.00", s.FullPayers.StringFixed(2))
	assert.Equal(t, "0.00", s.Purchases.StringFixed(2))
	assert.Equal(t, "0.00", s.Advances.StringFixed(2))
}
