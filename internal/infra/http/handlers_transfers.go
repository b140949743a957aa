package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listTransfers(c *gin.Context) {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указан warehouse_id"})
		return
	}
	ts, err := s.deps.Transfers.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": ts})
}

func (s *Server) getTransfer(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := s.deps.Transfers.GetByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "перемещение не найдено"})
		return
	}
	details, err := s.deps.Transfers.ListDetails(ctx, t.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfer": t, "details": details})
}

type receiveTransferRequest struct {
	CabinetID *string `json:"cabinetId"`
}

func (s *Server) receiveTransfer(c *gin.Context) {
	var req receiveTransferRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := s.deps.Transfers.Receive(c.Request.Context(), s.actorID(c), c.Param("id"), req.CabinetID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}
