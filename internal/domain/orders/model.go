package orders

import "time"

type DisplayStatus string

const (
	StatusOpen     DisplayStatus = "open"
	StatusSent     DisplayStatus = "sent"
	StatusReceived DisplayStatus = "received"
)

// Derive вычисляет отображаемый статус из серверных флагов. Авторитетное
// состояние заказа клиентская часть не считает — только это.
func Derive(isSent, isReceived bool) DisplayStatus {
	switch {
	case isReceived:
		return StatusReceived
	case isSent:
		return StatusSent
	default:
		return StatusOpen
	}
}

// ReplenishmentOrder — заявка склада в распределительный центр.
type ReplenishmentOrder struct {
	ID                string
	Number            string
	SourceWarehouseID string
	CedisWarehouseID  string
	IsSent            bool
	IsReceived        bool
	Notes             string
	CreatedAt         time.Time
}

func (o ReplenishmentOrder) Status() DisplayStatus { return Derive(o.IsSent, o.IsReceived) }

type ReplenishmentLine struct {
	OrderID  string
	Barcode  int64
	Quantity int
}

// WithdrawOrder — заказ на выдачу; обрабатывается возвратом целиком или
// по частям.
type WithdrawOrder struct {
	ID          string
	Number      string
	WarehouseID string
	EmployeeID  string
	IsSent      bool
	IsReceived  bool
	DateReturn  *time.Time
	CreatedAt   time.Time
}

func (o WithdrawOrder) Status() DisplayStatus { return Derive(o.IsSent, o.IsReceived) }
