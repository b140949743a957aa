package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Warehouse struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// CabinetMapping связывает склад максимум с одним кабинетом.
// Склад без кабинета считается распределительным центром (ЦС).
type CabinetMapping struct {
	WarehouseID string
	CabinetID   *string
	CabinetName string
}

func (m CabinetMapping) IsDistributionCenter() bool {
	return m.CabinetID == nil
}

type Product struct {
	Barcode    int64
	Title      string
	Category   string
	Cost       decimal.Decimal
	ActualCost decimal.Decimal
	CreatedAt  time.Time
}
