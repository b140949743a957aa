package kits

import "time"

// Kit — комплект позиций, закреплённый за сотрудником на период.
// Выдаётся и осматривается/возвращается как единое целое.
type Kit struct {
	ID          string
	Number      string
	EmployeeID  string
	WarehouseID string
	AssignedAt  time.Time
	InspectedAt *time.Time
	ReturnedAt  *time.Time
}

type KitItem struct {
	KitID          string
	ProductStockID string
	Barcode        int64
}
