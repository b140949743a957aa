package stock

import "time"

type MoveType string

const (
	MoveIn       MoveType = "in"
	MoveOut      MoveType = "out"
	MoveTransfer MoveType = "transfer"
	MoveReturn   MoveType = "return"
)

// Item — учётная единица товара. Позиция с непустым CabinetID считается
// «в кабинете», иначе «на складе».
type Item struct {
	ID          string
	Barcode     int64
	ProductName string
	WarehouseID string
	CabinetID   *string
	InUse       bool
	IsKit       bool
	Deleted     bool

	// Все варианты идентификатора склада, встретившиеся в исходной записи
	// фида (ERP отдаёт их под разными именами). Нужны для проверки
	// принадлежности складу, см. BelongsToWarehouse.
	WarehouseAliases []string
}

func (it Item) InCabinet() bool { return it.CabinetID != nil }

type Movement struct {
	ID          int64
	CreatedAt   time.Time
	ActorID     string
	WarehouseID string
	StockItemID string
	Type        MoveType
	Note        string
}
