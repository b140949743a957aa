package draft

import (
	"errors"
	"fmt"
)

type Flow string

const (
	FlowTransfer      Flow = "transfer"
	FlowReplenishment Flow = "replenishment"
	FlowReturn        Flow = "return"
	FlowKit           Flow = "kit"
)

type State string

const (
	StateEmpty      State = "empty"
	StateBuilding   State = "building"
	StateSubmitting State = "submitting"
)

// Политика добавления уже лежащей в черновике позиции и поведение при
// нулевом количестве различаются по типам операций. Это осознанно вынесено
// в настройку, а не зашито в одну «правильную» ветку.
type policy struct {
	incrementOnReAdd bool // true — повторное добавление увеличивает количество
	removeOnZero     bool // true — qty<=0 удаляет позицию, иначе прижимаем к 1
	boundedByStock   bool // true — количество сверху ограничено остатком
}

var policies = map[Flow]policy{
	FlowTransfer:      {incrementOnReAdd: false, removeOnZero: true},
	FlowReplenishment: {incrementOnReAdd: true},
	FlowReturn:        {incrementOnReAdd: false, removeOnZero: true, boundedByStock: true},
	FlowKit:           {incrementOnReAdd: true},
}

var (
	ErrEmptyDraft     = errors.New("черновик пуст")
	ErrSourceMismatch = errors.New("позиция с другого склада/кабинета")
	ErrSubmitting     = errors.New("черновик уже проводится")
	ErrUnknownFlow    = errors.New("неизвестный тип операции")
	ErrNotFound       = errors.New("черновик не найден")
)

// Item — позиция черновика.
type Item struct {
	ProductStockID string
	Barcode        int64
	Quantity       int
	ItemNotes      string

	// Источник позиции; первый Add фиксирует его для всего черновика.
	WarehouseID string
	CabinetID   *string

	// Для возвратов: заказ на выдачу, к которому относится позиция,
	// и остаток, ограничивающий количество сверху.
	WithdrawOrderID string
	AvailableStock  int
}

// Draft — сессионный черновик операции. Живёт только в памяти процесса и
// очищается при отмене или успешном проведении.
type Draft struct {
	ID                     string
	Flow                   Flow
	State                  State
	SourceWarehouseID      string
	SourceCabinetID        *string
	DestinationWarehouseID string
	Notes                  string
	Items                  []Item
}

func New(id string, flow Flow, destinationWarehouseID string) (*Draft, error) {
	if _, ok := policies[flow]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}
	return &Draft{
		ID:                     id,
		Flow:                   flow,
		State:                  StateEmpty,
		DestinationWarehouseID: destinationWarehouseID,
	}, nil
}

// AddOutcome — результат добавления. Дубликат — не ошибка, а отдельный
// сигнал («уже в списке»), чтобы интерфейс показал уведомление, а не отказ.
type AddOutcome string

const (
	Added       AddOutcome = "added"
	Incremented AddOutcome = "incremented"
	Duplicate   AddOutcome = "duplicate"
)

func sameCabinet(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Add добавляет позицию. Первый Add переводит черновик в building и
// фиксирует источник; дальше источник каждой позиции обязан совпадать с
// зафиксированным, иначе черновик не меняется.
func (d *Draft) Add(it Item) (AddOutcome, error) {
	if d.State == StateSubmitting {
		return "", ErrSubmitting
	}
	if it.Quantity <= 0 {
		it.Quantity = 1
	}

	if d.State == StateEmpty {
		d.State = StateBuilding
		d.SourceWarehouseID = it.WarehouseID
		d.SourceCabinetID = it.CabinetID
	} else if it.WarehouseID != d.SourceWarehouseID || !sameCabinet(it.CabinetID, d.SourceCabinetID) {
		return "", ErrSourceMismatch
	}

	p := policies[d.Flow]
	for i := range d.Items {
		if !d.sameEntry(d.Items[i], it) {
			continue
		}
		if !p.incrementOnReAdd {
			return Duplicate, nil
		}
		d.Items[i].Quantity = d.clampQty(d.Items[i], d.Items[i].Quantity+it.Quantity)
		return Incremented, nil
	}

	it.Quantity = d.clampQty(it, it.Quantity)
	d.Items = append(d.Items, it)
	return Added, nil
}

// В количественных черновиках (заявки, комплекты) позиции схлопываются по
// штрихкоду, в штучных — по конкретной учётной единице.
func (d *Draft) sameEntry(a, b Item) bool {
	if policies[d.Flow].incrementOnReAdd {
		return a.Barcode == b.Barcode
	}
	return a.ProductStockID == b.ProductStockID
}

func (d *Draft) clampQty(it Item, qty int) int {
	if qty < 1 {
		qty = 1
	}
	if policies[d.Flow].boundedByStock && it.AvailableStock > 0 && qty > it.AvailableStock {
		qty = it.AvailableStock
	}
	return qty
}

// Remove убирает позицию. Опустевший черновик возвращается в empty и
// забывает источник — следующий Add задаст новый.
func (d *Draft) Remove(productStockID string) bool {
	if d.State == StateSubmitting {
		return false
	}
	for i := range d.Items {
		if d.Items[i].ProductStockID != productStockID {
			continue
		}
		d.Items = append(d.Items[:i], d.Items[i+1:]...)
		if len(d.Items) == 0 {
			d.State = StateEmpty
			d.SourceWarehouseID = ""
			d.SourceCabinetID = nil
		}
		return true
	}
	return false
}

// UpdateQuantity меняет количество позиции. Неположительное значение либо
// удаляет позицию, либо прижимается к 1 — по политике потока; сверху
// количество ограничено остатком там, где он известен.
func (d *Draft) UpdateQuantity(productStockID string, qty int) bool {
	if d.State == StateSubmitting {
		return false
	}
	for i := range d.Items {
		if d.Items[i].ProductStockID != productStockID {
			continue
		}
		if qty <= 0 && policies[d.Flow].removeOnZero {
			return d.Remove(productStockID)
		}
		d.Items[i].Quantity = d.clampQty(d.Items[i], qty)
		return true
	}
	return false
}

// BeginSubmit переводит черновик в submitting. Пустой черновик проводить
// нельзя — отказываем локально, без похода в сеть.
func (d *Draft) BeginSubmit() error {
	switch d.State {
	case StateEmpty:
		return ErrEmptyDraft
	case StateSubmitting:
		return ErrSubmitting
	}
	d.State = StateSubmitting
	return nil
}

// FinishSubmit завершает проведение. При успехе черновик очищается, при
// ошибке выбор пользователя сохраняется и черновик возвращается в building.
func (d *Draft) FinishSubmit(ok bool) {
	if d.State != StateSubmitting {
		return
	}
	if ok {
		d.Items = nil
		d.State = StateEmpty
		d.SourceWarehouseID = ""
		d.SourceCabinetID = nil
		return
	}
	d.State = StateBuilding
}

// ItemIDs — множество id позиций черновика (для фильтра доступности).
func (d *Draft) ItemIDs() map[string]bool {
	out := make(map[string]bool, len(d.Items))
	for _, it := range d.Items {
		out[it.ProductStockID] = true
	}
	return out
}
