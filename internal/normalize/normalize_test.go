package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestItemsResolvesCandidatePaths(t *testing.T) {
	raw := `[
		{"productStockId":"a1","barcode":111,"productName":"Шампунь","warehouseId":"W1"},
		{"product_stock_id":"a2","bar_code":"222","product_name":"Маска","warehouse_id":"W1"},
		{"productStock":{"id":"a3"},"product":{"barcode":333,"name":"Крем"},"currentWarehouse":{"id":"W2"}}
	]`
	items, dropped := Items(decode(t, raw))

	require.Len(t, items, 3)
	assert.Equal(t, 0, dropped)

	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, int64(111), items[0].Barcode)
	assert.Equal(t, "Шампунь", items[0].ProductName)
	assert.Equal(t, "W1", items[0].WarehouseID)

	// snake_case и числовая строка штрихкода
	assert.Equal(t, "a2", items[1].ID)
	assert.Equal(t, int64(222), items[1].Barcode)

	// вложенные формы
	assert.Equal(t, "a3", items[2].ID)
	assert.Equal(t, int64(333), items[2].Barcode)
	assert.Equal(t, "Крем", items[2].ProductName)
	assert.Equal(t, "W2", items[2].WarehouseID)
}

func TestItemsDropsRecordsWithoutKeyFields(t *testing.T) {
	raw := `[
		{"barcode":111,"productName":"без id"},
		{"productStockId":"x1","productName":"без штрихкода"},
		{"productStockId":"x2","barcode":0},
		{"productStockId":"x3","barcode":"not-a-number"},
		{"productStockId":"ok","barcode":500}
	]`
	items, dropped := Items(decode(t, raw))

	require.Len(t, items, 1)
	assert.Equal(t, "ok", items[0].ID)
	assert.Equal(t, 4, dropped)

	for _, it := range items {
		assert.NotEmpty(t, it.ID)
		assert.Positive(t, it.Barcode)
	}
}

func TestItemsIdempotent(t *testing.T) {
	v := decode(t, `{"items":[
		{"productStockId":"a","barcode":1,"warehouseId":"W1","isBeingUsed":true},
		{"productStockId":"b","barcode":"2","is_deleted":true}
	]}`)

	first, d1 := Items(v)
	second, d2 := Items(v)

	assert.Equal(t, first, second)
	assert.Equal(t, d1, d2)
}

func TestItemsUnwrapsEnvelopes(t *testing.T) {
	for _, raw := range []string{
		`[{"productStockId":"a","barcode":1}]`,
		`{"items":[{"productStockId":"a","barcode":1}]}`,
		`{"data":[{"productStockId":"a","barcode":1}]}`,
		`{"productStockId":"a","barcode":1}`,
	} {
		items, _ := Items(decode(t, raw))
		require.Len(t, items, 1, raw)
		assert.Equal(t, "a", items[0].ID)
	}
}

func TestItemsNameFallbackAndFlags(t *testing.T) {
	items, _ := Items(decode(t, `[
		{"productStockId":"a","barcode":1,"isBeingUsed":true,"is_kit":true},
		{"productStockId":"b","barcode":2,"deleted":true}
	]`))
	require.Len(t, items, 2)

	assert.Equal(t, "Позиция 1", items[0].ProductName)
	assert.True(t, items[0].InUse)
	assert.True(t, items[0].IsKit)
	assert.True(t, items[1].Deleted)
}

func TestItemsCollectsWarehouseAliasesAndCabinet(t *testing.T) {
	items, _ := Items(decode(t, `[{
		"productStockId":"a","barcode":1,
		"warehouseId":"W1","warehouse_id":"w1","warehouse":{"id":"WH-1"},
		"cabinetId":"C1"
	}]`))
	require.Len(t, items, 1)

	assert.Equal(t, "W1", items[0].WarehouseID)
	assert.Contains(t, items[0].WarehouseAliases, "w1")
	assert.Contains(t, items[0].WarehouseAliases, "WH-1")
	require.NotNil(t, items[0].CabinetID)
	assert.Equal(t, "C1", *items[0].CabinetID)
}

func TestItemsMalformedInput(t *testing.T) {
	for _, v := range []any{nil, "строка", 42.0, []any{"не объект"}} {
		items, _ := Items(v)
		assert.Empty(t, items)
	}
}

func TestProducts(t *testing.T) {
	products, dropped := Products(decode(t, `[
		{"barcode":100,"title":"Лак","category":"стайлинг","cost":"149.90","actualCost":120.5},
		{"title":"без штрихкода"}
	]`))

	require.Len(t, products, 1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, int64(100), products[0].Barcode)
	assert.Equal(t, "Лак", products[0].Title)
	assert.Equal(t, "стайлинг", products[0].Category)
	assert.Equal(t, "149.9", products[0].Cost.String())
	assert.Equal(t, "120.5", products[0].ActualCost.String())
}
