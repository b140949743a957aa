package draft

import "time"

// Сборка запросов из черновика. Чистые функции без I/O: одинаковый черновик
// всегда даёт одинаковый запрос.

type TransferDetail struct {
	ProductStockID      string `json:"productStockId"`
	QuantityTransferred int    `json:"quantityTransferred"`
	ItemNotes           string `json:"itemNotes,omitempty"`
}

type TransferPayload struct {
	TransferNumber         string           `json:"transferNumber"`
	TransferType           string           `json:"transferType"`
	SourceWarehouseID      string           `json:"sourceWarehouseId"`
	DestinationWarehouseID string           `json:"destinationWarehouseId"`
	CabinetID              *string          `json:"cabinetId"`
	TransferDetails        []TransferDetail `json:"transferDetails"`
	TransferNotes          string           `json:"transferNotes,omitempty"`
	Priority               string           `json:"priority"`
	ScheduledDate          string           `json:"scheduledDate,omitempty"`
}

// TransferContext — реквизиты перемещения, которых нет в самом черновике.
type TransferContext struct {
	TransferNumber string
	TransferType   string
	Priority       string
	ScheduledDate  *time.Time
}

func AssembleTransfer(d Draft, tctx TransferContext) TransferPayload {
	p := TransferPayload{
		TransferNumber:         tctx.TransferNumber,
		TransferType:           tctx.TransferType,
		SourceWarehouseID:      d.SourceWarehouseID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		CabinetID:              d.SourceCabinetID,
		TransferNotes:          d.Notes,
		Priority:               tctx.Priority,
	}
	if tctx.ScheduledDate != nil {
		p.ScheduledDate = tctx.ScheduledDate.Format(time.RFC3339)
	}
	for _, it := range d.Items {
		p.TransferDetails = append(p.TransferDetails, TransferDetail{
			ProductStockID:      it.ProductStockID,
			QuantityTransferred: it.Quantity,
			ItemNotes:           it.ItemNotes,
		})
	}
	return p
}

type ReturnOrder struct {
	WithdrawOrderID string   `json:"withdrawOrderId"`
	ProductStockIDs []string `json:"productStockIds"`
}

type ReturnPayload struct {
	DateReturn string        `json:"dateReturn"`
	Orders     []ReturnOrder `json:"orders"`
}

// AssembleReturn группирует позиции по заказу на выдачу; порядок заказов —
// по первому вхождению, позиции внутри заказа — в порядке добавления.
func AssembleReturn(d Draft, dateReturn time.Time) ReturnPayload {
	p := ReturnPayload{DateReturn: dateReturn.Format(time.RFC3339)}
	idx := map[string]int{}
	for _, it := range d.Items {
		i, ok := idx[it.WithdrawOrderID]
		if !ok {
			i = len(p.Orders)
			idx[it.WithdrawOrderID] = i
			p.Orders = append(p.Orders, ReturnOrder{WithdrawOrderID: it.WithdrawOrderID})
		}
		p.Orders[i].ProductStockIDs = append(p.Orders[i].ProductStockIDs, it.ProductStockID)
	}
	return p
}

type ReplenishmentItem struct {
	Barcode  int64 `json:"barcode"`
	Quantity int   `json:"quantity"`
}

type ReplenishmentPayload struct {
	SourceWarehouseID string              `json:"sourceWarehouseId"`
	CedisWarehouseID  string              `json:"cedisWarehouseId"`
	Items             []ReplenishmentItem `json:"items"`
	Notes             string              `json:"notes,omitempty"`
}

func AssembleReplenishment(d Draft, cedisWarehouseID string) ReplenishmentPayload {
	p := ReplenishmentPayload{
		SourceWarehouseID: d.SourceWarehouseID,
		CedisWarehouseID:  cedisWarehouseID,
		Notes:             d.Notes,
	}
	for _, it := range d.Items {
		p.Items = append(p.Items, ReplenishmentItem{Barcode: it.Barcode, Quantity: it.Quantity})
	}
	return p
}
