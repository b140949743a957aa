package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleReturnGroupsByWithdrawOrder(t *testing.T) {
	d := Draft{
		Flow: FlowReturn,
		Items: []Item{
			{ProductStockID: "a", WithdrawOrderID: "O1"},
			{ProductStockID: "b", WithdrawOrderID: "O1"},
			{ProductStockID: "c", WithdrawOrderID: "O2"},
		},
	}
	date := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

	p := AssembleReturn(d, date)

	assert.Equal(t, "2025-11-03T12:00:00Z", p.DateReturn)
	require.Len(t, p.Orders, 2)
	// порядок заказов — по первому вхождению
	assert.Equal(t, "O1", p.Orders[0].WithdrawOrderID)
	assert.Equal(t, []string{"a", "b"}, p.Orders[0].ProductStockIDs)
	assert.Equal(t, "O2", p.Orders[1].WithdrawOrderID)
	assert.Equal(t, []string{"c"}, p.Orders[1].ProductStockIDs)
}

func TestAssembleTransfer(t *testing.T) {
	cab := "C1"
	d := Draft{
		Flow:                   FlowTransfer,
		SourceWarehouseID:      "W1",
		SourceCabinetID:        &cab,
		DestinationWarehouseID: "W2",
		Notes:                  "срочно",
		Items: []Item{
			{ProductStockID: "a", Quantity: 1, ItemNotes: "царапина"},
			{ProductStockID: "b", Quantity: 2},
		},
	}
	sched := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	p := AssembleTransfer(d, TransferContext{
		TransferNumber: "T-42",
		TransferType:   "manual",
		Priority:       "high",
		ScheduledDate:  &sched,
	})

	assert.Equal(t, "T-42", p.TransferNumber)
	assert.Equal(t, "W1", p.SourceWarehouseID)
	assert.Equal(t, "W2", p.DestinationWarehouseID)
	require.NotNil(t, p.CabinetID)
	assert.Equal(t, "C1", *p.CabinetID)
	assert.Equal(t, "срочно", p.TransferNotes)
	assert.Equal(t, "2025-12-01T00:00:00Z", p.ScheduledDate)
	require.Len(t, p.TransferDetails, 2)
	assert.Equal(t, TransferDetail{ProductStockID: "a", QuantityTransferred: 1, ItemNotes: "царапина"}, p.TransferDetails[0])
}

func TestAssembleReplenishment(t *testing.T) {
	d := Draft{
		Flow:              FlowReplenishment,
		SourceWarehouseID: "W1",
		Notes:             "к пятнице",
		Items: []Item{
			{ProductStockID: "a", Barcode: 100, Quantity: 3},
			{ProductStockID: "b", Barcode: 200, Quantity: 1},
		},
	}

	p := AssembleReplenishment(d, "cedis-main")

	assert.Equal(t, "W1", p.SourceWarehouseID)
	assert.Equal(t, "cedis-main", p.CedisWarehouseID)
	assert.Equal(t, "к пятнице", p.Notes)
	assert.Equal(t, []ReplenishmentItem{{Barcode: 100, Quantity: 3}, {Barcode: 200, Quantity: 1}}, p.Items)
}

// Одинаковый черновик всегда собирается в одинаковый запрос.
func TestAssembleDeterministic(t *testing.T) {
	d := Draft{
		Flow: FlowReturn,
		Items: []Item{
			{ProductStockID: "a", WithdrawOrderID: "O1"},
			{ProductStockID: "c", WithdrawOrderID: "O2"},
			{ProductStockID: "b", WithdrawOrderID: "O1"},
		},
	}
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, AssembleReturn(d, date), AssembleReturn(d, date))
}
