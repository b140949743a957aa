package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Spok95/beauty-stock/internal/domain/stock"
	"github.com/Spok95/beauty-stock/internal/export"
)

type warehouseView struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Active               bool    `json:"active"`
	CabinetID            *string `json:"cabinetId"`
	IsDistributionCenter bool    `json:"isDistributionCenter"`
}

func (s *Server) listWarehouses(c *gin.Context) {
	ctx := c.Request.Context()
	ws, err := s.deps.Catalog.ListWarehouses(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]warehouseView, 0, len(ws))
	for _, w := range ws {
		m, err := s.deps.Catalog.GetCabinetMapping(ctx, w.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out = append(out, warehouseView{
			ID: w.ID, Name: w.Name, Active: w.Active,
			CabinetID:            m.CabinetID,
			IsDistributionCenter: m.IsDistributionCenter(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"warehouses": out})
}

type stockItemView struct {
	ProductStockID string  `json:"productStockId"`
	Barcode        int64   `json:"barcode"`
	ProductName    string  `json:"productName"`
	WarehouseID    string  `json:"warehouseId"`
	CabinetID      *string `json:"cabinetId"`
	InCabinet      bool    `json:"inCabinet"`
	IsBeingUsed    bool    `json:"isBeingUsed"`
	IsKit          bool    `json:"isKit"`
}

type stockGroupView struct {
	Barcode int64           `json:"barcode"`
	Items   []stockItemView `json:"items"`
}

// warehouseStock отдаёт остатки склада группами по штрихкоду. При
// available=1 применяется фильтр доступности (удалённые, занятые, уже
// лежащие в черновике draft_id и позиции ЦС для непривилегированной роли
// исключаются).
func (s *Server) warehouseStock(c *gin.Context) {
	ctx := c.Request.Context()
	warehouseID := c.Param("id")

	items, err := s.deps.Stock.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("available") == "1" {
		actx := stock.AvailabilityContext{
			CanManageKits: s.currentRole(c).CanManageKits(),
			InDraft:       map[string]bool{},
		}
		if dcs, err := s.deps.Catalog.ListDistributionCenters(ctx); err == nil {
			actx.DistributionCenters = dcs
		}
		if draftID := c.Query("draft_id"); draftID != "" {
			if d, ok := s.deps.Drafts.Snapshot(draftID); ok {
				actx.InDraft = d.ItemIDs()
			}
		}
		items = stock.Available(items, actx)
	}

	groups := stock.GroupByBarcode(items)
	if c.Query("sort") == "name" {
		stock.SortGroupsByName(groups)
	}

	out := make([]stockGroupView, 0, len(groups))
	for _, g := range groups {
		gv := stockGroupView{Barcode: g.Barcode}
		for _, it := range g.Items {
			gv.Items = append(gv.Items, stockItemView{
				ProductStockID: it.ID,
				Barcode:        it.Barcode,
				ProductName:    it.ProductName,
				WarehouseID:    it.WarehouseID,
				CabinetID:      it.CabinetID,
				InCabinet:      it.InCabinet(),
				IsBeingUsed:    it.InUse,
				IsKit:          it.IsKit,
			})
		}
		out = append(out, gv)
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

func (s *Server) exportStock(c *gin.Context) {
	ctx := c.Request.Context()
	warehouseID := c.Param("id")

	w, err := s.deps.Catalog.GetWarehouseByID(ctx, warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "склад не найден"})
		return
	}

	items, err := s.deps.Stock.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	f, err := export.BuildStockExport(*w, stock.GroupByBarcode(items))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="stock_%s.xlsx"`, w.ID))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		s.deps.Log.Error("export write failed", "warehouse", warehouseID, "err", err)
	}
}

// importReception принимает xlsx с поступлением и приходует позиции:
// на каждую единицу количества создаётся отдельная учётная запись.
func (s *Server) importReception(c *gin.Context) {
	ctx := c.Request.Context()
	warehouseID := c.Param("id")

	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "пустое тело запроса, ожидается .xlsx"})
		return
	}

	fileWarehouseID, rows, err := export.ImportReception(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if fileWarehouseID != warehouseID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("файл для склада %s, а приёмка на %s", fileWarehouseID, warehouseID),
		})
		return
	}

	actor := s.actorID(c)
	received := 0
	for _, row := range rows {
		for i := 0; i < row.Quantity; i++ {
			it := stock.Item{
				ID:          uuid.NewString(),
				Barcode:     row.Barcode,
				ProductName: row.Name,
				WarehouseID: warehouseID,
			}
			if err := s.deps.Stock.Receive(ctx, actor, it, "reception_excel"); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			received++
		}
	}
	c.JSON(http.StatusOK, gin.H{"received": received})
}

func (s *Server) runSync(c *gin.Context) {
	if err := s.deps.Syncer.Run(c.Request.Context()); err != nil {
		s.deps.Log.Error("sync failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}
