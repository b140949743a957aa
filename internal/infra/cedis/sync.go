package cedis

import (
	"context"
	"log/slog"

	"github.com/Spok95/beauty-stock/internal/domain/catalog"
	"github.com/Spok95/beauty-stock/internal/domain/stock"
	"github.com/Spok95/beauty-stock/internal/infra/metrics"
	"github.com/Spok95/beauty-stock/internal/normalize"
)

// Syncer перекладывает фиды ERP в нашу базу. Битые записи фида молча
// отбрасываются (это штатная ситуация, форма фида дрейфует), счётчик
// отброшенного уходит в метрики.
type Syncer struct {
	client  *Client
	log     *slog.Logger
	catalog *catalog.Repo
	stock   *stock.Repo
}

func NewSyncer(client *Client, log *slog.Logger, catalogRepo *catalog.Repo, stockRepo *stock.Repo) *Syncer {
	return &Syncer{client: client, log: log, catalog: catalogRepo, stock: stockRepo}
}

func (s *Syncer) Run(ctx context.Context) error {
	if err := s.syncCatalog(ctx); err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return err
	}
	if err := s.syncStock(ctx); err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return err
	}
	metrics.SyncRuns.WithLabelValues("ok").Inc()
	return nil
}

func (s *Syncer) syncCatalog(ctx context.Context) error {
	raw, err := s.client.FetchCatalogFeed(ctx)
	if err != nil {
		return err
	}
	products, dropped := normalize.Products(raw)
	metrics.FeedRecordsDropped.WithLabelValues("catalog").Add(float64(dropped))

	for _, p := range products {
		if err := s.catalog.UpsertProduct(ctx, p); err != nil {
			return err
		}
	}
	s.log.Info("catalog synced", "products", len(products), "dropped", dropped)
	return nil
}

func (s *Syncer) syncStock(ctx context.Context) error {
	raw, err := s.client.FetchStockFeed(ctx)
	if err != nil {
		return err
	}
	items, dropped := normalize.Items(raw)
	metrics.FeedRecordsDropped.WithLabelValues("stock").Add(float64(dropped))

	for _, it := range items {
		if err := s.stock.Upsert(ctx, it); err != nil {
			return err
		}
	}
	s.log.Info("stock synced", "items", len(items), "dropped", dropped)
	return nil
}
