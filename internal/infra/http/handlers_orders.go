package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/beauty-stock/internal/domain/orders"
)

type replenishmentView struct {
	ID                string               `json:"id"`
	Number            string               `json:"number"`
	SourceWarehouseID string               `json:"sourceWarehouseId"`
	CedisWarehouseID  string               `json:"cedisWarehouseId"`
	Status            orders.DisplayStatus `json:"status"`
	Notes             string               `json:"notes,omitempty"`
}

func (s *Server) listReplenishment(c *gin.Context) {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указан warehouse_id"})
		return
	}
	os, err := s.deps.Orders.ListReplenishment(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]replenishmentView, 0, len(os))
	for _, o := range os {
		out = append(out, replenishmentView{
			ID: o.ID, Number: o.Number,
			SourceWarehouseID: o.SourceWarehouseID,
			CedisWarehouseID:  o.CedisWarehouseID,
			Status:            o.Status(),
			Notes:             o.Notes,
		})
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (s *Server) markReplenishmentReceived(c *gin.Context) {
	if err := s.deps.Orders.MarkReceived(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

type withdrawView struct {
	ID          string               `json:"id"`
	Number      string               `json:"number"`
	WarehouseID string               `json:"warehouseId"`
	EmployeeID  string               `json:"employeeId"`
	Status      orders.DisplayStatus `json:"status"`
	DateReturn  *string              `json:"dateReturn,omitempty"`
}

func (s *Server) listWithdraw(c *gin.Context) {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указан warehouse_id"})
		return
	}
	os, err := s.deps.Orders.ListWithdraw(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]withdrawView, 0, len(os))
	for _, o := range os {
		v := withdrawView{
			ID: o.ID, Number: o.Number,
			WarehouseID: o.WarehouseID,
			EmployeeID:  o.EmployeeID,
			Status:      o.Status(),
		}
		if o.DateReturn != nil {
			str := o.DateReturn.Format("2006-01-02")
			v.DateReturn = &str
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}
