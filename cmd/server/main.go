package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/beauty-stock/internal/config"
	"github.com/Spok95/beauty-stock/internal/domain/catalog"
	"github.com/Spok95/beauty-stock/internal/domain/kits"
	"github.com/Spok95/beauty-stock/internal/domain/orders"
	"github.com/Spok95/beauty-stock/internal/domain/stock"
	"github.com/Spok95/beauty-stock/internal/domain/transfers"
	"github.com/Spok95/beauty-stock/internal/domain/users"
	"github.com/Spok95/beauty-stock/internal/draft"
	"github.com/Spok95/beauty-stock/internal/infra/cedis"
	"github.com/Spok95/beauty-stock/internal/infra/db"
	httpx "github.com/Spok95/beauty-stock/internal/infra/http"
	"github.com/Spok95/beauty-stock/internal/infra/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	catalogRepo := catalog.NewRepo(pool)
	stockRepo := stock.NewRepo(pool)

	client := cedis.NewClient(cfg.Cedis.BaseURL, cfg.Cedis.Token)

	deps := httpx.Deps{
		Log:              log,
		Users:            users.NewRepo(pool),
		Catalog:          catalogRepo,
		Stock:            stockRepo,
		Transfers:        transfers.NewRepo(pool),
		Orders:           orders.NewRepo(pool),
		Kits:             kits.NewRepo(pool),
		Drafts:           draft.NewStore(),
		Cedis:            client,
		Syncer:           cedis.NewSyncer(client, log, catalogRepo, stockRepo),
		CedisWarehouseID: cfg.Cedis.WarehouseID,
	}

	srv := httpx.New(cfg.HTTP.Addr, cfg.App.Env, cfg.Metrics.Enabled, deps)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
