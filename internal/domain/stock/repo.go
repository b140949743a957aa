package stock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, id string) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT s.id, s.barcode, COALESCE(p.title, s.product_name), s.warehouse_id,
		       s.cabinet_id, s.in_use, s.is_kit, s.deleted
		FROM stock_items s
		LEFT JOIN products p ON p.barcode = s.barcode
		WHERE s.id = $1
	`, id)
	var it Item
	if err := row.Scan(&it.ID, &it.Barcode, &it.ProductName, &it.WarehouseID,
		&it.CabinetID, &it.InUse, &it.IsKit, &it.Deleted); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// ListByWarehouse возвращает позиции склада. Имя позиции подтягивается из
// каталога, если в самой записи его нет.
func (r *Repo) ListByWarehouse(ctx context.Context, warehouseID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.barcode, COALESCE(p.title, s.product_name), s.warehouse_id,
		       s.cabinet_id, s.in_use, s.is_kit, s.deleted
		FROM stock_items s
		LEFT JOIN products p ON p.barcode = s.barcode
		WHERE s.warehouse_id = $1
		ORDER BY s.created_at, s.id
	`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Barcode, &it.ProductName, &it.WarehouseID,
			&it.CabinetID, &it.InUse, &it.IsKit, &it.Deleted); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) ListByBarcode(ctx context.Context, warehouseID string, barcode int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.barcode, COALESCE(p.title, s.product_name), s.warehouse_id,
		       s.cabinet_id, s.in_use, s.is_kit, s.deleted
		FROM stock_items s
		LEFT JOIN products p ON p.barcode = s.barcode
		WHERE s.warehouse_id = $1 AND s.barcode = $2
		ORDER BY s.created_at, s.id
	`, warehouseID, barcode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Barcode, &it.ProductName, &it.WarehouseID,
			&it.CabinetID, &it.InUse, &it.IsKit, &it.Deleted); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Upsert применяется при синхронизации фида ERP: запись обновляется целиком,
// движение не пишем (источник истины по этим позициям — ERP).
func (r *Repo) Upsert(ctx context.Context, it Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock_items (id, barcode, product_name, warehouse_id, cabinet_id, in_use, is_kit, deleted)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
		  barcode=EXCLUDED.barcode, product_name=EXCLUDED.product_name,
		  warehouse_id=EXCLUDED.warehouse_id, cabinet_id=EXCLUDED.cabinet_id,
		  in_use=EXCLUDED.in_use, is_kit=EXCLUDED.is_kit, deleted=EXCLUDED.deleted
	`, it.ID, it.Barcode, it.ProductName, it.WarehouseID, it.CabinetID, it.InUse, it.IsKit, it.Deleted)
	return err
}

// Receive приходует новую позицию на склад и пишет движение в той же транзакции.
func (r *Repo) Receive(ctx context.Context, actorID string, it Item, note string) error {
	if it.ID == "" || it.Barcode <= 0 {
		return fmt.Errorf("stock item must have id and barcode")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `
		INSERT INTO stock_items (id, barcode, product_name, warehouse_id, cabinet_id)
		VALUES ($1,$2,$3,$4,$5)
	`, it.ID, it.Barcode, it.ProductName, it.WarehouseID, it.CabinetID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO movements (actor_id, warehouse_id, stock_item_id, type, note)
		VALUES ($1,$2,$3,$4,$5)
	`, actorID, it.WarehouseID, it.ID, string(MoveIn), note); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CountAvailable — сколько незанятых позиций данного товара осталось на складе.
// Верхняя граница количества в черновиках возвратов.
func (r *Repo) CountAvailable(ctx context.Context, warehouseID string, barcode int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM stock_items
		WHERE warehouse_id=$1 AND barcode=$2 AND NOT deleted AND NOT in_use
	`, warehouseID, barcode).Scan(&n)
	return n, err
}
