package stock

import (
	"sort"
	"strings"
)

type Group struct {
	Barcode int64
	Items   []Item
}

// GroupByBarcode разбивает позиции по штрихкоду. Порядок групп — по первому
// вхождению штрихкода, порядок внутри группы — порядок входа. Никакой
// сортировки, если вызывающий не попросил её явно.
func GroupByBarcode(items []Item) []Group {
	idx := map[int64]int{}
	var out []Group
	for _, it := range items {
		i, ok := idx[it.Barcode]
		if !ok {
			i = len(out)
			idx[it.Barcode] = i
			out = append(out, Group{Barcode: it.Barcode})
		}
		out[i].Items = append(out[i].Items, it)
	}
	return out
}

// SortGroupsByName сортирует группы по отображаемому имени первой позиции,
// без учёта регистра. Стабильно.
func SortGroupsByName(groups []Group) {
	name := func(g Group) string {
		if len(g.Items) == 0 {
			return ""
		}
		return strings.ToLower(g.Items[0].ProductName)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return name(groups[i]) < name(groups[j])
	})
}

// WarehouseIdentifiers собирает все поля позиции, которые могут быть
// идентификатором склада, без дублей, с сохранением порядка.
func WarehouseIdentifiers(it Item) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}
	add(it.WarehouseID)
	for _, a := range it.WarehouseAliases {
		add(a)
	}
	return out
}

// BelongsToWarehouse проверяет принадлежность позиции складу: сначала точное
// сравнение, затем без учёта регистра.
func BelongsToWarehouse(it Item, warehouseID string) bool {
	ids := WarehouseIdentifiers(it)
	for _, id := range ids {
		if id == warehouseID {
			return true
		}
	}
	for _, id := range ids {
		if strings.EqualFold(id, warehouseID) {
			return true
		}
	}
	return false
}

// AvailabilityContext — контекст отбора позиций «доступно к перемещению/добавлению».
type AvailabilityContext struct {
	// Позиции, уже лежащие в текущем черновике (по id).
	InDraft map[string]bool
	// Привилегия работы с комплектами (роль admin/manager).
	CanManageKits bool
	// Склады-ЦС (id -> true).
	DistributionCenters map[string]bool
}

// Available отбирает позиции, которые можно добавить в черновик: не удалена,
// не в работе, не в черновике; позиции ЦС доступны только роли с привилегией
// работы с комплектами.
func Available(items []Item, actx AvailabilityContext) []Item {
	var out []Item
	for _, it := range items {
		if it.Deleted || it.InUse {
			continue
		}
		if actx.InDraft[it.ID] {
			continue
		}
		if actx.DistributionCenters[it.WarehouseID] && !actx.CanManageKits {
			continue
		}
		out = append(out, it)
	}
	return out
}
