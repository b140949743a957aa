package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/beauty-stock/internal/domain/catalog"
	"github.com/Spok95/beauty-stock/internal/domain/stock"
)

func receptionFile(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	all := append([][]any{{"warehouse_id", "Склад", "Штрихкод", "Наименование", "Количество"}}, rows...)
	for r, row := range all {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestImportReception(t *testing.T) {
	data := receptionFile(t, [][]any{
		{"W1", "Салон на Тверской", 4600001, "Шампунь", 3},
		{"W1", "Салон на Тверской", 4600002, "Маска", 1},
		{"", "", "", "", ""}, // пустая строка в конце файла
	})

	warehouseID, rows, err := ImportReception(data)
	require.NoError(t, err)
	assert.Equal(t, "W1", warehouseID)
	require.Len(t, rows, 2)
	assert.Equal(t, ReceptionRow{Barcode: 4600001, Name: "Шампунь", Quantity: 3}, rows[0])
	assert.Equal(t, ReceptionRow{Barcode: 4600002, Name: "Маска", Quantity: 1}, rows[1])
}

func TestImportReceptionRowErrors(t *testing.T) {
	cases := []struct {
		row     []any
		wantErr string
	}{
		{[]any{"W1", "Склад", "abc", "Шампунь", 3}, "строке 2: некорректный штрихкод"},
		{[]any{"W1", "Склад", 4600001, "Шампунь", -2}, "строке 2: некорректное количество"},
	}
	for _, tc := range cases {
		_, _, err := ImportReception(receptionFile(t, [][]any{tc.row}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.wantErr)
	}
}

func TestImportReceptionMissingWarehouse(t *testing.T) {
	_, _, err := ImportReception(receptionFile(t, [][]any{{"", "Склад", 4600001, "Шампунь", 1}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "склад")
}

func TestImportReceptionNotXLSX(t *testing.T) {
	_, _, err := ImportReception([]byte("это не excel"))
	assert.Error(t, err)
}

func TestBuildStockExport(t *testing.T) {
	cab := "C1"
	groups := stock.GroupByBarcode([]stock.Item{
		{ID: "a", Barcode: 4600001, ProductName: "Шампунь", WarehouseID: "W1", CabinetID: &cab},
		{ID: "b", Barcode: 4600001, ProductName: "Шампунь", WarehouseID: "W1", InUse: true},
		{ID: "c", Barcode: 4600002, ProductName: "Маска", WarehouseID: "W1"},
	})

	f, err := BuildStockExport(catalog.Warehouse{ID: "W1", Name: "Салон на Тверской"}, groups)
	require.NoError(t, err)
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	get := func(col, row int) string {
		cell, err := excelize.CoordinatesToCellName(col, row)
		require.NoError(t, err)
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Штрихкод", get(3, 1))
	// первая группа: одна из двух единиц занята
	assert.Equal(t, "4600001", get(3, 2))
	assert.Equal(t, "Шампунь", get(4, 2))
	assert.Equal(t, "C1", get(5, 2))
	assert.Equal(t, "1", get(6, 2))
	assert.Equal(t, "2", get(7, 2))
	// вторая группа целиком доступна
	assert.Equal(t, "4600002", get(3, 3))
	assert.Equal(t, fmt.Sprint(1), get(6, 3))
}
