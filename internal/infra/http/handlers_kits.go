package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listKits(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указан employee_id"})
		return
	}
	ks, err := s.deps.Kits.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kits": ks})
}

func (s *Server) getKit(c *gin.Context) {
	ctx := c.Request.Context()
	k, err := s.deps.Kits.GetByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if k == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "комплект не найден"})
		return
	}
	items, err := s.deps.Kits.ListItems(ctx, k.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kit": k, "items": items})
}

func (s *Server) inspectKit(c *gin.Context) {
	if !s.currentRole(c).CanManageKits() {
		c.JSON(http.StatusForbidden, gin.H{"error": "недостаточно прав"})
		return
	}
	if err := s.deps.Kits.Inspect(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

func (s *Server) returnKit(c *gin.Context) {
	if !s.currentRole(c).CanManageKits() {
		c.JSON(http.StatusForbidden, gin.H{"error": "недостаточно прав"})
		return
	}
	if err := s.deps.Kits.Return(c.Request.Context(), s.actorID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}
