// Package normalize приводит сырые JSON-фиды ERP к каноническим типам.
// ERP отдаёт одни и те же поля то в camelCase, то в snake_case, то вложенно —
// поэтому каждое поле читается по упорядоченному списку путей-кандидатов, и
// побеждает первый определённый кандидат подходящего типа. Нормализатор
// никогда не паникует и не возвращает ошибок: битая запись либо получает
// детерминированный фолбэк, либо отбрасывается.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/beauty-stock/internal/domain/catalog"
	"github.com/Spok95/beauty-stock/internal/domain/stock"
)

// Пути-кандидаты на каждое каноническое поле. Точка — вложенность.
var (
	stockIDPaths   = []string{"productStockId", "product_stock_id", "productStock.id", "stockId", "stock_id"}
	barcodePaths   = []string{"barcode", "bar_code", "product.barcode", "code"}
	namePaths      = []string{"productName", "product_name", "product.name", "product.title", "title", "name"}
	warehousePaths = []string{"warehouseId", "warehouse_id", "currentWarehouseId", "current_warehouse_id", "currentWarehouse.id", "warehouse.id"}
	cabinetPaths   = []string{"cabinetId", "cabinet_id", "currentCabinetId", "current_cabinet_id", "currentCabinet.id", "cabinet.id"}
	inUsePaths     = []string{"isBeingUsed", "is_being_used", "inUse", "in_use"}
	isKitPaths     = []string{"isKit", "is_kit"}
	deletedPaths   = []string{"isDeleted", "is_deleted", "deleted"}

	categoryPaths   = []string{"category", "categoryName", "category_name"}
	costPaths       = []string{"cost", "price"}
	actualCostPaths = []string{"actualCost", "actual_cost"}
)

func lookup(m map[string]any, path string) (any, bool) {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// resolveString: первый непустой строковый кандидат.
func resolveString(m map[string]any, paths []string) (string, bool) {
	for _, p := range paths {
		if v, ok := lookup(m, p); ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// resolveID принимает и строки, и числа (ERP местами шлёт числовые id).
func resolveID(m map[string]any, paths []string) (string, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t, true
			}
		case float64:
			if t != 0 && t == math.Trunc(t) {
				return strconv.FormatInt(int64(t), 10), true
			}
		}
	}
	return "", false
}

// resolveBarcode принимает числа и числовые строки; ноль, отрицательные и
// нечисловые значения не считаются штрихкодом.
func resolveBarcode(m map[string]any, paths []string) (int64, bool) {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			if t > 0 && t == math.Trunc(t) {
				return int64(t), true
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func resolveBool(m map[string]any, paths []string) bool {
	for _, p := range paths {
		if v, ok := lookup(m, p); ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func resolveDecimal(m map[string]any, paths []string) decimal.Decimal {
	for _, p := range paths {
		v, ok := lookup(m, p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return decimal.NewFromFloat(t)
		case string:
			if d, err := decimal.NewFromString(t); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}

// records разворачивает типовые обёртки ответов ERP: массив верхнего уровня,
// {"items": [...]}, {"data": [...]}, либо одиночный объект.
func records(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		for _, key := range []string{"items", "data", "results"} {
			if inner, ok := t[key]; ok {
				return records(inner)
			}
		}
		return []map[string]any{t}
	default:
		return nil
	}
}

// Items нормализует фид остатков. Записи без productStockId или без
// положительного числового штрихкода отбрасываются; вторым значением
// возвращается число отброшенных.
func Items(v any) ([]stock.Item, int) {
	recs := records(v)
	var out []stock.Item
	dropped := 0
	for i, m := range recs {
		id, okID := resolveID(m, stockIDPaths)
		code, okCode := resolveBarcode(m, barcodePaths)
		if !okID || !okCode {
			dropped++
			continue
		}

		it := stock.Item{ID: id, Barcode: code}

		if name, ok := resolveString(m, namePaths); ok {
			it.ProductName = name
		} else {
			it.ProductName = fmt.Sprintf("Позиция %d", i+1)
		}

		it.WarehouseID, _ = resolveID(m, warehousePaths)
		for _, p := range warehousePaths {
			if wid, ok := resolveID(m, []string{p}); ok {
				it.WarehouseAliases = append(it.WarehouseAliases, wid)
			}
		}
		if cab, ok := resolveID(m, cabinetPaths); ok {
			it.CabinetID = &cab
		}

		it.InUse = resolveBool(m, inUsePaths)
		it.IsKit = resolveBool(m, isKitPaths)
		it.Deleted = resolveBool(m, deletedPaths)

		out = append(out, it)
	}
	return out, dropped
}

// Products нормализует фид каталога. Ключ записи — штрихкод; записи без него
// отбрасываются.
func Products(v any) ([]catalog.Product, int) {
	recs := records(v)
	var out []catalog.Product
	dropped := 0
	for i, m := range recs {
		code, ok := resolveBarcode(m, barcodePaths)
		if !ok {
			dropped++
			continue
		}
		p := catalog.Product{Barcode: code}
		if title, ok := resolveString(m, namePaths); ok {
			p.Title = title
		} else {
			p.Title = fmt.Sprintf("Позиция %d", i+1)
		}
		p.Category, _ = resolveString(m, categoryPaths)
		p.Cost = resolveDecimal(m, costPaths)
		p.ActualCost = resolveDecimal(m, actualCostPaths)
		out = append(out, p)
	}
	return out, dropped
}
