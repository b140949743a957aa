package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(t *testing.T, flow Flow) *Draft {
	t.Helper()
	d, err := New("d1", flow, "W9")
	require.NoError(t, err)
	return d
}

func transferItem(stockID string, barcode int64, warehouseID string) Item {
	return Item{ProductStockID: stockID, Barcode: barcode, Quantity: 1, WarehouseID: warehouseID}
}

func TestNewUnknownFlow(t *testing.T) {
	_, err := New("d1", Flow("billing"), "")
	assert.ErrorIs(t, err, ErrUnknownFlow)
}

func TestAddFixesSource(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	assert.Equal(t, StateEmpty, d.State)

	out, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)
	assert.Equal(t, Added, out)
	assert.Equal(t, StateBuilding, d.State)
	assert.Equal(t, "W1", d.SourceWarehouseID)
}

func TestAddSourceMismatchRejected(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	_, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)

	_, err = d.Add(transferItem("def", 456, "W2"))
	assert.ErrorIs(t, err, ErrSourceMismatch)

	// черновик не изменился: тот же состав, тот же источник
	assert.Len(t, d.Items, 1)
	assert.Equal(t, "W1", d.SourceWarehouseID)
}

func TestAddCabinetMismatchRejected(t *testing.T) {
	cab := "C1"
	d := newDraft(t, FlowTransfer)
	_, err := d.Add(Item{ProductStockID: "abc", Barcode: 1, WarehouseID: "W1", CabinetID: &cab})
	require.NoError(t, err)

	// тот же склад, но позиция не из кабинета
	_, err = d.Add(Item{ProductStockID: "def", Barcode: 2, WarehouseID: "W1"})
	assert.ErrorIs(t, err, ErrSourceMismatch)
}

func TestAddDuplicateIsNoop(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	_, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)

	// повторный скан той же единицы — не ошибка, а сигнал «уже в списке»
	out, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)
	assert.Equal(t, Duplicate, out)
	assert.Len(t, d.Items, 1)
	assert.Equal(t, 1, d.Items[0].Quantity)
}

func TestAddIncrementsInQuantityFlows(t *testing.T) {
	for _, flow := range []Flow{FlowReplenishment, FlowKit} {
		d := newDraft(t, flow)
		_, err := d.Add(transferItem("abc", 123, "W1"))
		require.NoError(t, err)

		out, err := d.Add(transferItem("abc2", 123, "W1"))
		require.NoError(t, err)
		assert.Equal(t, Incremented, out, flow)
		assert.Len(t, d.Items, 1)
		assert.Equal(t, 2, d.Items[0].Quantity)
	}
}

func TestRemoveLastClearsSource(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	_, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)

	assert.True(t, d.Remove("abc"))
	assert.Equal(t, StateEmpty, d.State)
	assert.Empty(t, d.SourceWarehouseID)

	// после очистки источника добавление с другого склада проходит
	out, err := d.Add(transferItem("xyz", 777, "W2"))
	require.NoError(t, err)
	assert.Equal(t, Added, out)
	assert.Equal(t, "W2", d.SourceWarehouseID)
}

func TestUpdateQuantityZeroRemovesInReturnFlow(t *testing.T) {
	d := newDraft(t, FlowReturn)
	it := transferItem("abc", 123, "W1")
	it.AvailableStock = 5
	_, err := d.Add(it)
	require.NoError(t, err)

	assert.True(t, d.UpdateQuantity("abc", 0))
	assert.Empty(t, d.Items)
	assert.Equal(t, StateEmpty, d.State)
}

func TestUpdateQuantityClampsToAvailableStock(t *testing.T) {
	d := newDraft(t, FlowReturn)
	it := transferItem("abc", 123, "W1")
	it.AvailableStock = 3
	_, err := d.Add(it)
	require.NoError(t, err)

	assert.True(t, d.UpdateQuantity("abc", 10))
	assert.Equal(t, 3, d.Items[0].Quantity)
}

func TestUpdateQuantityClampsToOneWithoutRemovePolicy(t *testing.T) {
	d := newDraft(t, FlowReplenishment)
	_, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)

	// в количественных черновиках ноль прижимается к 1, позиция остаётся
	assert.True(t, d.UpdateQuantity("abc", 0))
	require.Len(t, d.Items, 1)
	assert.Equal(t, 1, d.Items[0].Quantity)
}

func TestSubmitEmptyRejectedLocally(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	assert.ErrorIs(t, d.BeginSubmit(), ErrEmptyDraft)
}

func TestSubmitFailurePreservesSelection(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	_, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)

	require.NoError(t, d.BeginSubmit())
	assert.Equal(t, StateSubmitting, d.State)

	// во время проведения черновик не мутируется
	_, err = d.Add(transferItem("def", 456, "W1"))
	assert.ErrorIs(t, err, ErrSubmitting)

	d.FinishSubmit(false)
	assert.Equal(t, StateBuilding, d.State)
	assert.Len(t, d.Items, 1)
}

func TestSubmitSuccessClearsDraft(t *testing.T) {
	d := newDraft(t, FlowTransfer)
	_, err := d.Add(transferItem("abc", 123, "W1"))
	require.NoError(t, err)

	require.NoError(t, d.BeginSubmit())
	d.FinishSubmit(true)

	assert.Equal(t, StateEmpty, d.State)
	assert.Empty(t, d.Items)
	assert.Empty(t, d.SourceWarehouseID)
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	d, err := s.Create(FlowTransfer, "W9")
	require.NoError(t, err)

	require.NoError(t, s.With(d.ID, func(d *Draft) error {
		_, err := d.Add(transferItem("abc", 123, "W1"))
		return err
	}))

	snap, ok := s.Snapshot(d.ID)
	require.True(t, ok)
	assert.Len(t, snap.Items, 1)

	// снимок — копия, мутация снимка не трогает хранилище
	snap.Items[0].Quantity = 99
	snap2, _ := s.Snapshot(d.ID)
	assert.Equal(t, 1, snap2.Items[0].Quantity)

	s.Abandon(d.ID)
	_, ok = s.Snapshot(d.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, s.With(d.ID, func(*Draft) error { return nil }), ErrNotFound)
}
