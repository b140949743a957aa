package transfers

import "time"

type Transfer struct {
	ID                     string
	Number                 string
	Type                   string
	SourceWarehouseID      string
	DestinationWarehouseID string
	CabinetID              *string
	Notes                  string
	Priority               string
	ScheduledDate          *time.Time
	Received               bool
	CreatedAt              time.Time
}

type Detail struct {
	TransferID          string
	ProductStockID      string
	QuantityTransferred int
	ItemNotes           string
}
