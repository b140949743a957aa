package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/beauty-stock/internal/draft"
	"github.com/Spok95/beauty-stock/internal/infra/metrics"
)

// parseBarcode разбирает код со сканера; сканер отдаёт просто строку.
func parseBarcode(code string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(code), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type createDraftRequest struct {
	Flow                   string `json:"flow" binding:"required"`
	DestinationWarehouseID string `json:"destinationWarehouseId"`
	Notes                  string `json:"notes"`
}

func (s *Server) createDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := s.deps.Drafts.Create(draft.Flow(req.Flow), req.DestinationWarehouseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Notes != "" {
		_ = s.deps.Drafts.With(d.ID, func(d *draft.Draft) error {
			d.Notes = req.Notes
			return nil
		})
	}
	c.JSON(http.StatusCreated, draftView(*d))
}

type draftItemView struct {
	ProductStockID  string `json:"productStockId"`
	Barcode         int64  `json:"barcode"`
	Quantity        int    `json:"quantity"`
	ItemNotes       string `json:"itemNotes,omitempty"`
	WithdrawOrderID string `json:"withdrawOrderId,omitempty"`
}

type draftResponse struct {
	ID                     string          `json:"id"`
	Flow                   string          `json:"flow"`
	State                  string          `json:"state"`
	SourceWarehouseID      string          `json:"sourceWarehouseId,omitempty"`
	SourceCabinetID        *string         `json:"sourceCabinetId,omitempty"`
	DestinationWarehouseID string          `json:"destinationWarehouseId,omitempty"`
	Items                  []draftItemView `json:"items"`
}

func draftView(d draft.Draft) draftResponse {
	resp := draftResponse{
		ID:                     d.ID,
		Flow:                   string(d.Flow),
		State:                  string(d.State),
		SourceWarehouseID:      d.SourceWarehouseID,
		SourceCabinetID:        d.SourceCabinetID,
		DestinationWarehouseID: d.DestinationWarehouseID,
		Items:                  []draftItemView{},
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, draftItemView{
			ProductStockID:  it.ProductStockID,
			Barcode:         it.Barcode,
			Quantity:        it.Quantity,
			ItemNotes:       it.ItemNotes,
			WithdrawOrderID: it.WithdrawOrderID,
		})
	}
	return resp
}

func (s *Server) getDraft(c *gin.Context) {
	d, ok := s.deps.Drafts.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": draft.ErrNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, draftView(d))
}

func (s *Server) abandonDraft(c *gin.Context) {
	s.deps.Drafts.Abandon(c.Param("id"))
	c.Status(http.StatusNoContent)
}

type addItemRequest struct {
	// Либо конкретная учётная единица, либо код со сканера — он
	// равносилен ручному выбору первой доступной позиции по штрихкоду.
	ProductStockID  string `json:"productStockId"`
	ScannedCode     string `json:"scannedCode"`
	Quantity        int    `json:"quantity"`
	ItemNotes       string `json:"itemNotes"`
	WithdrawOrderID string `json:"withdrawOrderId"`
}

func (s *Server) addDraftItem(c *gin.Context) {
	draftID := c.Param("id")

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ProductStockID == "" && req.ScannedCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "нужен productStockId или scannedCode"})
		return
	}

	it, errMsg, err := s.resolveDraftItem(c, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if errMsg != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errMsg})
		return
	}

	var outcome draft.AddOutcome
	err = s.deps.Drafts.With(draftID, func(d *draft.Draft) error {
		var addErr error
		outcome, addErr = d.Add(it)
		return addErr
	})
	switch {
	case errors.Is(err, draft.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, draft.ErrSourceMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"result": string(outcome)}
	if outcome == draft.Duplicate {
		resp["notice"] = "позиция уже в списке"
	}
	if d, ok := s.deps.Drafts.Snapshot(draftID); ok {
		resp["draft"] = draftView(d)
	}
	c.JSON(http.StatusOK, resp)
}

// resolveDraftItem превращает запрос в позицию черновика: проверяет запись
// склада, её доступность и, для возвратов, остаток-ограничитель. Второе
// значение — текст пользовательской ошибки (без похода в сеть дальше).
func (s *Server) resolveDraftItem(c *gin.Context, req addItemRequest) (draft.Item, string, error) {
	ctx := c.Request.Context()

	stockID := req.ProductStockID
	if stockID == "" {
		// Код со сканера: первая доступная позиция с этим штрихкодом
		// на складе из query.
		warehouseID := c.Query("warehouse_id")
		code, ok := parseBarcode(req.ScannedCode)
		if !ok {
			return draft.Item{}, "нечитаемый штрихкод", nil
		}
		candidates, err := s.deps.Stock.ListByBarcode(ctx, warehouseID, code)
		if err != nil {
			return draft.Item{}, "", err
		}
		for _, cand := range candidates {
			if !cand.Deleted && !cand.InUse {
				stockID = cand.ID
				break
			}
		}
		if stockID == "" {
			return draft.Item{}, "по этому штрихкоду нет доступных позиций", nil
		}
	}

	rec, err := s.deps.Stock.GetByID(ctx, stockID)
	if err != nil {
		return draft.Item{}, "", err
	}
	if rec == nil {
		return draft.Item{}, "позиция не найдена", nil
	}
	if rec.Deleted || rec.InUse {
		return draft.Item{}, "позиция недоступна (удалена или в работе)", nil
	}

	it := draft.Item{
		ProductStockID:  rec.ID,
		Barcode:         rec.Barcode,
		Quantity:        req.Quantity,
		ItemNotes:       req.ItemNotes,
		WarehouseID:     rec.WarehouseID,
		CabinetID:       rec.CabinetID,
		WithdrawOrderID: req.WithdrawOrderID,
	}
	if avail, err := s.deps.Stock.CountAvailable(ctx, rec.WarehouseID, rec.Barcode); err == nil {
		it.AvailableStock = avail
	}
	return it, "", nil
}

func (s *Server) removeDraftItem(c *gin.Context) {
	removed := false
	err := s.deps.Drafts.With(c.Param("id"), func(d *draft.Draft) error {
		removed = d.Remove(c.Param("stockID"))
		return nil
	})
	if errors.Is(err, draft.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "позиции нет в черновике"})
		return
	}
	d, _ := s.deps.Drafts.Snapshot(c.Param("id"))
	c.JSON(http.StatusOK, draftView(d))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) updateDraftItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := false
	err := s.deps.Drafts.With(c.Param("id"), func(d *draft.Draft) error {
		updated = d.UpdateQuantity(c.Param("stockID"), req.Quantity)
		return nil
	})
	if errors.Is(err, draft.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "позиции нет в черновике"})
		return
	}
	d, _ := s.deps.Drafts.Snapshot(c.Param("id"))
	c.JSON(http.StatusOK, draftView(d))
}

type submitRequest struct {
	TransferNumber string `json:"transferNumber"`
	TransferType   string `json:"transferType"`
	Priority       string `json:"priority"`
	ScheduledDate  string `json:"scheduledDate"`
	DateReturn     string `json:"dateReturn"`
	EmployeeID     string `json:"employeeId"`
}

// submitDraft проводит черновик. Ошибка проведения возвращает черновик в
// building с сохранением выбора пользователя; успех очищает его.
func (s *Server) submitDraft(c *gin.Context) {
	draftID := c.Param("id")

	var req submitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err := s.deps.Drafts.With(draftID, func(d *draft.Draft) error {
		return d.BeginSubmit()
	})
	switch {
	case errors.Is(err, draft.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, draft.ErrEmptyDraft):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	d, _ := s.deps.Drafts.Snapshot(draftID)

	result, submitErr := s.performSubmit(c, d, req)

	_ = s.deps.Drafts.With(draftID, func(d *draft.Draft) error {
		d.FinishSubmit(submitErr == nil)
		return nil
	})

	if submitErr != nil {
		s.deps.Log.Error("draft submit failed", "draft", draftID, "flow", d.Flow, "err", submitErr)
		c.JSON(http.StatusBadGateway, gin.H{"error": submitErr.Error()})
		return
	}

	metrics.DraftsSubmitted.WithLabelValues(string(d.Flow)).Inc()
	s.deps.Drafts.Abandon(draftID)
	c.JSON(http.StatusOK, result)
}

func (s *Server) performSubmit(c *gin.Context, d draft.Draft, req submitRequest) (gin.H, error) {
	ctx := c.Request.Context()
	actor := s.actorID(c)

	switch d.Flow {
	case draft.FlowTransfer:
		// ЦС не может быть получателем у роли без привилегии комплектов.
		if !s.currentRole(c).CanManageKits() {
			m, err := s.deps.Catalog.GetCabinetMapping(ctx, d.DestinationWarehouseID)
			if err != nil {
				return nil, err
			}
			if m.IsDistributionCenter() {
				return nil, fmt.Errorf("перемещение в распределительный центр недоступно для вашей роли")
			}
		}
		tctx := draft.TransferContext{
			TransferNumber: req.TransferNumber,
			TransferType:   req.TransferType,
			Priority:       req.Priority,
		}
		if req.ScheduledDate != "" {
			if ts, err := time.Parse(time.RFC3339, req.ScheduledDate); err == nil {
				tctx.ScheduledDate = &ts
			}
		}
		t, err := s.deps.Transfers.Create(ctx, actor, draft.AssembleTransfer(d, tctx))
		if err != nil {
			return nil, err
		}
		return gin.H{"transferId": t.ID, "transferNumber": t.Number}, nil

	case draft.FlowReplenishment:
		payload := draft.AssembleReplenishment(d, s.deps.CedisWarehouseID)
		o, err := s.deps.Orders.CreateReplenishment(ctx, payload)
		if err != nil {
			return nil, err
		}
		if err := s.deps.Cedis.SubmitReplenishment(ctx, payload); err != nil {
			return nil, err
		}
		if err := s.deps.Orders.MarkSent(ctx, o.ID); err != nil {
			return nil, err
		}
		return gin.H{"orderId": o.ID, "orderNumber": o.Number}, nil

	case draft.FlowReturn:
		dateReturn := time.Now()
		if req.DateReturn != "" {
			ts, err := time.Parse(time.RFC3339, req.DateReturn)
			if err != nil {
				return nil, fmt.Errorf("некорректная дата возврата")
			}
			dateReturn = ts
		}
		payload := draft.AssembleReturn(d, dateReturn)
		if err := s.deps.Orders.ProcessReturn(ctx, actor, payload); err != nil {
			return nil, err
		}
		return gin.H{"processedOrders": len(payload.Orders)}, nil

	case draft.FlowKit:
		if req.EmployeeID == "" {
			return nil, fmt.Errorf("не указан сотрудник")
		}
		k, err := s.deps.Kits.Assign(ctx, actor, req.EmployeeID, d)
		if err != nil {
			return nil, err
		}
		return gin.H{"kitId": k.ID, "kitNumber": k.Number}, nil
	}

	return nil, draft.ErrUnknownFlow
}
