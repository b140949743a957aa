package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/beauty-stock/internal/domain/catalog"
	"github.com/Spok95/beauty-stock/internal/domain/kits"
	"github.com/Spok95/beauty-stock/internal/domain/orders"
	"github.com/Spok95/beauty-stock/internal/domain/stock"
	"github.com/Spok95/beauty-stock/internal/domain/transfers"
	"github.com/Spok95/beauty-stock/internal/domain/users"
	"github.com/Spok95/beauty-stock/internal/draft"
	"github.com/Spok95/beauty-stock/internal/infra/cedis"
)

type Deps struct {
	Log       *slog.Logger
	Users     *users.Repo
	Catalog   *catalog.Repo
	Stock     *stock.Repo
	Transfers *transfers.Repo
	Orders    *orders.Repo
	Kits      *kits.Repo
	Drafts    *draft.Store
	Cedis     *cedis.Client
	Syncer    *cedis.Syncer

	// Идентификатор нашего ЦС в ERP для заявок на пополнение.
	CedisWarehouseID string
}

type Server struct {
	srv  *http.Server
	deps Deps
}

func New(addr string, env string, exposeMetrics bool, deps Deps) *Server {
	if env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{deps: deps}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if exposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/warehouses", s.listWarehouses)
		api.GET("/warehouses/:id/stock", s.warehouseStock)
		api.GET("/warehouses/:id/stock/export", s.exportStock)
		api.POST("/warehouses/:id/reception", s.importReception)

		api.POST("/drafts", s.createDraft)
		api.GET("/drafts/:id", s.getDraft)
		api.DELETE("/drafts/:id", s.abandonDraft)
		api.POST("/drafts/:id/items", s.addDraftItem)
		api.DELETE("/drafts/:id/items/:stockID", s.removeDraftItem)
		api.PATCH("/drafts/:id/items/:stockID", s.updateDraftItem)
		api.POST("/drafts/:id/submit", s.submitDraft)

		api.GET("/transfers", s.listTransfers)
		api.GET("/transfers/:id", s.getTransfer)
		api.POST("/transfers/:id/receive", s.receiveTransfer)

		api.GET("/orders/replenishment", s.listReplenishment)
		api.POST("/orders/replenishment/:id/received", s.markReplenishmentReceived)
		api.GET("/orders/withdraw", s.listWithdraw)

		api.GET("/kits", s.listKits)
		api.GET("/kits/:id", s.getKit)
		api.POST("/kits/:id/inspect", s.inspectKit)
		api.POST("/kits/:id/return", s.returnKit)

		api.POST("/sync", s.runSync)
	}

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// currentRole определяет роль по заголовку X-User-Id; неизвестный или
// отсутствующий пользователь получает наименьшие права.
func (s *Server) currentRole(c *gin.Context) users.Role {
	id := c.GetHeader("X-User-Id")
	if id == "" {
		return users.RoleStaff
	}
	u, err := s.deps.Users.GetByID(c.Request.Context(), id)
	if err != nil || u == nil {
		return users.RoleStaff
	}
	return u.Role
}

func (s *Server) actorID(c *gin.Context) string {
	return c.GetHeader("X-User-Id")
}
