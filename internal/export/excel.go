package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/beauty-stock/internal/domain/catalog"
	"github.com/Spok95/beauty-stock/internal/domain/stock"
)

var stockHeader = []string{"warehouse_id", "Склад", "Штрихкод", "Наименование", "Кабинет", "Доступно", "Всего"}

// BuildStockExport собирает xlsx с остатками склада: одна строка на штрихкод.
func BuildStockExport(w catalog.Warehouse, groups []stock.Group) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	for col, h := range stockHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, g := range groups {
		name, cabinet := "", ""
		available, total := 0, 0
		for _, it := range g.Items {
			if name == "" {
				name = it.ProductName
			}
			if cabinet == "" && it.CabinetID != nil {
				cabinet = *it.CabinetID
			}
			total++
			if !it.Deleted && !it.InUse {
				available++
			}
		}
		row := []any{w.ID, w.Name, g.Barcode, name, cabinet, available, total}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

type ReceptionRow struct {
	Barcode  int64
	Name     string
	Quantity int
}

// ImportReception читает файл поступления. Формат: warehouse_id, Склад,
// Штрихкод, Наименование, Количество; склад берётся из первой строки данных.
// Ошибка в строке возвращается с её номером, чтобы файл можно было поправить.
func ImportReception(data []byte) (string, []ReceptionRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("не удалось прочитать Excel-файл (повреждён или не .xlsx)")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return "", nil, fmt.Errorf("файл не содержит данных (нет строк с позициями)")
	}

	if len(rows[0]) < 5 {
		return "", nil, fmt.Errorf("некорректный формат файла: ожидается минимум 5 колонок (warehouse_id ... Количество)")
	}

	warehouseID := ""
	if len(rows[1]) >= 1 {
		warehouseID = strings.TrimSpace(rows[1][0])
	}
	if warehouseID == "" {
		return "", nil, fmt.Errorf("не удалось определить склад (проверьте колонку warehouse_id в файле)")
	}

	var out []ReceptionRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 5 {
			continue
		}
		codeStr := strings.TrimSpace(row[2])
		qtyStr := strings.TrimSpace(row[4])
		if codeStr == "" || qtyStr == "" {
			// пустая строка или количество не задано — пропускаем
			continue
		}

		code, err := strconv.ParseInt(codeStr, 10, 64)
		if err != nil || code <= 0 {
			return "", nil, fmt.Errorf("ошибка в строке %d: некорректный штрихкод (%q)", i+1, codeStr)
		}

		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return "", nil, fmt.Errorf("ошибка в строке %d: некорректное количество (%q), используйте положительное целое", i+1, qtyStr)
		}

		out = append(out, ReceptionRow{
			Barcode:  code,
			Name:     strings.TrimSpace(row[3]),
			Quantity: qty,
		})
	}
	return warehouseID, out, nil
}
