package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/beauty-stock/internal/draft"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Replenishment */

func (r *Repo) CreateReplenishment(ctx context.Context, p draft.ReplenishmentPayload) (*ReplenishmentOrder, error) {
	if len(p.Items) == 0 {
		return nil, fmt.Errorf("заявка без позиций")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := ReplenishmentOrder{
		ID:                uuid.NewString(),
		SourceWarehouseID: p.SourceWarehouseID,
		CedisWarehouseID:  p.CedisWarehouseID,
		Notes:             p.Notes,
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO replenishment_orders (id, source_warehouse_id, cedis_warehouse_id, notes)
		VALUES ($1,$2,$3,$4)
		RETURNING number, created_at
	`, o.ID, o.SourceWarehouseID, o.CedisWarehouseID, o.Notes)
	if err := row.Scan(&o.Number, &o.CreatedAt); err != nil {
		return nil, err
	}

	for _, it := range p.Items {
		if _, err = tx.Exec(ctx, `
			INSERT INTO replenishment_lines (order_id, barcode, quantity)
			VALUES ($1,$2,$3)
		`, o.ID, it.Barcode, it.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) MarkSent(ctx context.Context, orderID string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE replenishment_orders SET is_sent=TRUE WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("заявка не найдена")
	}
	return nil
}

func (r *Repo) MarkReceived(ctx context.Context, orderID string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE replenishment_orders SET is_received=TRUE WHERE id=$1 AND is_sent=TRUE
	`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("заявка не найдена или ещё не отправлена")
	}
	return nil
}

func (r *Repo) ListReplenishment(ctx context.Context, warehouseID string) ([]ReplenishmentOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, source_warehouse_id, cedis_warehouse_id, is_sent, is_received,
		       COALESCE(notes,''), created_at
		FROM replenishment_orders
		WHERE source_warehouse_id=$1
		ORDER BY created_at DESC
	`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReplenishmentOrder
	for rows.Next() {
		var o ReplenishmentOrder
		if err := rows.Scan(&o.ID, &o.Number, &o.SourceWarehouseID, &o.CedisWarehouseID,
			&o.IsSent, &o.IsReceived, &o.Notes, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListReplenishmentLines(ctx context.Context, orderID string) ([]ReplenishmentLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id, barcode, quantity FROM replenishment_lines WHERE order_id=$1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReplenishmentLine
	for rows.Next() {
		var l ReplenishmentLine
		if err := rows.Scan(&l.OrderID, &l.Barcode, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

/* Withdraw / returns */

func (r *Repo) GetWithdraw(ctx context.Context, id string) (*WithdrawOrder, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, number, warehouse_id, employee_id, is_sent, is_received, date_return, created_at
		FROM withdraw_orders WHERE id=$1
	`, id)
	var o WithdrawOrder
	if err := row.Scan(&o.ID, &o.Number, &o.WarehouseID, &o.EmployeeID,
		&o.IsSent, &o.IsReceived, &o.DateReturn, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *Repo) ListWithdraw(ctx context.Context, warehouseID string) ([]WithdrawOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, warehouse_id, employee_id, is_sent, is_received, date_return, created_at
		FROM withdraw_orders
		WHERE warehouse_id=$1
		ORDER BY created_at DESC
	`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WithdrawOrder
	for rows.Next() {
		var o WithdrawOrder
		if err := rows.Scan(&o.ID, &o.Number, &o.WarehouseID, &o.EmployeeID,
			&o.IsSent, &o.IsReceived, &o.DateReturn, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ProcessReturn обрабатывает собранный возврат одной транзакцией: каждой
// затронутой выдаче проставляется дата возврата, позиции освобождаются,
// по каждой пишется движение.
func (r *Repo) ProcessReturn(ctx context.Context, actorID string, p draft.ReturnPayload) error {
	if len(p.Orders) == 0 {
		return fmt.Errorf("возврат без позиций")
	}
	dateReturn, err := time.Parse(time.RFC3339, p.DateReturn)
	if err != nil {
		return fmt.Errorf("некорректная дата возврата: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, ord := range p.Orders {
		var warehouseID string
		err := tx.QueryRow(ctx, `
			SELECT warehouse_id FROM withdraw_orders WHERE id=$1
		`, ord.WithdrawOrderID).Scan(&warehouseID)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("заказ на выдачу %s не найден", ord.WithdrawOrderID)
		}
		if err != nil {
			return err
		}

		if _, err = tx.Exec(ctx, `
			UPDATE withdraw_orders SET date_return=$2, is_received=TRUE WHERE id=$1
		`, ord.WithdrawOrderID, dateReturn); err != nil {
			return err
		}

		for _, stockID := range ord.ProductStockIDs {
			if _, err = tx.Exec(ctx, `
				UPDATE withdraw_order_items SET returned_at=$3
				WHERE withdraw_order_id=$1 AND product_stock_id=$2
			`, ord.WithdrawOrderID, stockID, dateReturn); err != nil {
				return err
			}
			if _, err = tx.Exec(ctx, `
				UPDATE stock_items SET in_use=FALSE WHERE id=$1
			`, stockID); err != nil {
				return err
			}
			if _, err = tx.Exec(ctx, `
				INSERT INTO movements (actor_id, warehouse_id, stock_item_id, type, note)
				VALUES ($1,$2,$3,'return',$4)
			`, actorID, warehouseID, stockID, "возврат по "+ord.WithdrawOrderID); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
