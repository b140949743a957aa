package kits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/beauty-stock/internal/draft"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Assign выдаёт комплект по черновику: на каждую строку черновика подбираются
// свободные позиции нужного товара на складе-источнике, помечаются занятыми и
// привязываются к комплекту. Всё в одной транзакции.
func (r *Repo) Assign(ctx context.Context, actorID, employeeID string, d draft.Draft) (*Kit, error) {
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("комплект без позиций")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	k := Kit{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		WarehouseID: d.SourceWarehouseID,
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO kits (id, employee_id, warehouse_id)
		VALUES ($1,$2,$3)
		RETURNING number, assigned_at
	`, k.ID, k.EmployeeID, k.WarehouseID)
	if err := row.Scan(&k.Number, &k.AssignedAt); err != nil {
		return nil, err
	}

	for _, it := range d.Items {
		rows, err := tx.Query(ctx, `
			SELECT id FROM stock_items
			WHERE warehouse_id=$1 AND barcode=$2 AND NOT deleted AND NOT in_use
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		`, d.SourceWarehouseID, it.Barcode, it.Quantity)
		if err != nil {
			return nil, err
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if len(ids) < it.Quantity {
			return nil, fmt.Errorf("товара %d недостаточно: нужно %d, свободно %d",
				it.Barcode, it.Quantity, len(ids))
		}

		for _, id := range ids {
			if _, err = tx.Exec(ctx, `
				INSERT INTO kit_items (kit_id, product_stock_id, barcode)
				VALUES ($1,$2,$3)
			`, k.ID, id, it.Barcode); err != nil {
				return nil, err
			}
			if _, err = tx.Exec(ctx, `
				UPDATE stock_items SET in_use=TRUE WHERE id=$1
			`, id); err != nil {
				return nil, err
			}
			if _, err = tx.Exec(ctx, `
				INSERT INTO movements (actor_id, warehouse_id, stock_item_id, type, note)
				VALUES ($1,$2,$3,'out',$4)
			`, actorID, k.WarehouseID, id, "выдача комплекта "+k.Number); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &k, nil
}

// Inspect фиксирует осмотр комплекта.
func (r *Repo) Inspect(ctx context.Context, kitID string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE kits SET inspected_at=now() WHERE id=$1 AND returned_at IS NULL
	`, kitID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("комплект не найден или уже возвращён")
	}
	return nil
}

// Return принимает комплект обратно: позиции освобождаются группой.
func (r *Repo) Return(ctx context.Context, actorID, kitID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var warehouseID string
	err = tx.QueryRow(ctx, `
		SELECT warehouse_id FROM kits WHERE id=$1 AND returned_at IS NULL
	`, kitID).Scan(&warehouseID)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("комплект не найден или уже возвращён")
	}
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE stock_items SET in_use=FALSE
		WHERE id IN (SELECT product_stock_id FROM kit_items WHERE kit_id=$1)
	`, kitID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO movements (actor_id, warehouse_id, stock_item_id, type, note)
		SELECT $1, $3, product_stock_id, 'in', 'возврат комплекта'
		FROM kit_items WHERE kit_id=$2
	`, actorID, kitID, warehouseID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE kits SET returned_at=now() WHERE id=$1
	`, kitID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Kit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, number, employee_id, warehouse_id, assigned_at, inspected_at, returned_at
		FROM kits WHERE id=$1
	`, id)
	var k Kit
	if err := row.Scan(&k.ID, &k.Number, &k.EmployeeID, &k.WarehouseID,
		&k.AssignedAt, &k.InspectedAt, &k.ReturnedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &k, nil
}

func (r *Repo) ListByEmployee(ctx context.Context, employeeID string) ([]Kit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, employee_id, warehouse_id, assigned_at, inspected_at, returned_at
		FROM kits WHERE employee_id=$1
		ORDER BY assigned_at DESC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Kit
	for rows.Next() {
		var k Kit
		if err := rows.Scan(&k.ID, &k.Number, &k.EmployeeID, &k.WarehouseID,
			&k.AssignedAt, &k.InspectedAt, &k.ReturnedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *Repo) ListItems(ctx context.Context, kitID string) ([]KitItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT kit_id, product_stock_id, barcode FROM kit_items WHERE kit_id=$1
	`, kitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KitItem
	for rows.Next() {
		var it KitItem
		if err := rows.Scan(&it.KitID, &it.ProductStockID, &it.Barcode); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
