package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, barcode int64, warehouseID string) Item {
	return Item{ID: id, Barcode: barcode, WarehouseID: warehouseID}
}

func TestGroupByBarcodePartition(t *testing.T) {
	items := []Item{
		item("a", 1, "W1"),
		item("b", 2, "W1"),
		item("c", 1, "W1"),
		item("d", 3, "W1"),
		item("e", 2, "W1"),
	}
	groups := GroupByBarcode(items)

	// порядок групп — по первому вхождению штрихкода
	require.Len(t, groups, 3)
	assert.Equal(t, int64(1), groups[0].Barcode)
	assert.Equal(t, int64(2), groups[1].Barcode)
	assert.Equal(t, int64(3), groups[2].Barcode)

	// разбиение полное и без пересечений
	seen := map[string]int{}
	total := 0
	for _, g := range groups {
		for _, it := range g.Items {
			assert.Equal(t, g.Barcode, it.Barcode)
			seen[it.ID]++
			total++
		}
	}
	assert.Equal(t, len(items), total)
	for id, n := range seen {
		assert.Equal(t, 1, n, "позиция %s попала в несколько групп", id)
	}

	// порядок внутри группы — порядок входа
	assert.Equal(t, "a", groups[0].Items[0].ID)
	assert.Equal(t, "c", groups[0].Items[1].ID)
}

func TestSortGroupsByName(t *testing.T) {
	groups := GroupByBarcode([]Item{
		{ID: "a", Barcode: 1, ProductName: "шампунь"},
		{ID: "b", Barcode: 2, ProductName: "Бальзам"},
		{ID: "c", Barcode: 3, ProductName: "лак"},
	})
	SortGroupsByName(groups)

	assert.Equal(t, "Бальзам", groups[0].Items[0].ProductName)
	assert.Equal(t, "лак", groups[1].Items[0].ProductName)
	assert.Equal(t, "шампунь", groups[2].Items[0].ProductName)
}

func TestWarehouseIdentifiersDeduplicated(t *testing.T) {
	it := Item{WarehouseID: "W1", WarehouseAliases: []string{"W1", "w1", "WH-1", "w1"}}
	ids := WarehouseIdentifiers(it)
	assert.Equal(t, []string{"W1", "w1", "WH-1"}, ids)
}

func TestBelongsToWarehouse(t *testing.T) {
	it := Item{WarehouseID: "W1", WarehouseAliases: []string{"WH-1"}}

	assert.True(t, BelongsToWarehouse(it, "W1"))
	// сначала точное совпадение, потом без учёта регистра
	assert.True(t, BelongsToWarehouse(it, "w1"))
	assert.True(t, BelongsToWarehouse(it, "wh-1"))
	assert.False(t, BelongsToWarehouse(it, "W2"))
}

func TestAvailableFilters(t *testing.T) {
	items := []Item{
		item("ok", 1, "W1"),
		{ID: "del", Barcode: 1, WarehouseID: "W1", Deleted: true},
		{ID: "busy", Barcode: 1, WarehouseID: "W1", InUse: true},
		item("drafted", 1, "W1"),
		item("cedis", 2, "DC1"),
	}
	actx := AvailabilityContext{
		InDraft:             map[string]bool{"drafted": true},
		CanManageKits:       false,
		DistributionCenters: map[string]bool{"DC1": true},
	}

	out := Available(items, actx)
	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].ID)
}

// Позиция ЦС не попадает в выборку для роли без привилегии комплектов,
// какими бы ни были остальные атрибуты.
func TestAvailableDistributionCenterExclusion(t *testing.T) {
	variants := []Item{
		item("p1", 1, "DC1"),
		{ID: "p2", Barcode: 2, WarehouseID: "DC1", IsKit: true},
		{ID: "p3", Barcode: 3, WarehouseID: "DC1", CabinetID: ptr("C1")},
	}
	actx := AvailabilityContext{DistributionCenters: map[string]bool{"DC1": true}}

	assert.Empty(t, Available(variants, actx))

	// а привилегированная роль их видит
	actx.CanManageKits = true
	assert.Len(t, Available(variants, actx), 3)
}

func ptr(s string) *string { return &s }
