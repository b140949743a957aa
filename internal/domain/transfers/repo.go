package transfers

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

// Create проводит перемещение одной транзакцией: шапка, строки, перенос
// каждой позиции на склад назначения и запись движения.
func (r *Repo) Create(ctx context.Context, actorID string, p draft.TransferPayload) (*Transfer, error) {
	if len(p.TransferDetails) == 0 {
		return nil, fmt.Errorf("перемещение без позиций")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t := Transfer{
		ID:                     uuid.NewString(),
		Number:                 p.TransferNumber,
		Type:                   p.TransferType,
		SourceWarehouseID:      p.SourceWarehouseID,
		DestinationWarehouseID: p.DestinationWarehouseID,
		CabinetID:              p.CabinetID,
		Notes:                  p.TransferNotes,
		Priority:               p.Priority,
	}
	if p.ScheduledDate != "" {
		if ts, err := time.Parse(time.RFC3339, p.ScheduledDate); err == nil {
			t.ScheduledDate = &ts
		}
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO transfers (id, number, type, source_warehouse_id, destination_warehouse_id,
		                       cabinet_id, notes, priority, scheduled_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, t.ID, t.Number, t.Type, t.SourceWarehouseID, t.DestinationWarehouseID,
		t.CabinetID, t.Notes, t.Priority, t.ScheduledDate)
	if err := row.Scan(&t.CreatedAt); err != nil {
		return nil, err
	}

	for _, d := range p.TransferDetails {
		if _, err = tx.Exec(ctx, `
			INSERT INTO transfer_details (transfer_id, product_stock_id, quantity, item_notes)
			VALUES ($1,$2,$3,$4)
		`, t.ID, d.ProductStockID, d.QuantityTransferred, d.ItemNotes); err != nil {
			return nil, err
		}

		// Позиция уезжает со склада-источника; кабинет сбрасывается,
		// на приёмке её разложат заново.
		ct, err := tx.Exec(ctx, `
			UPDATE stock_items
			SET warehouse_id=$2, cabinet_id=NULL
			WHERE id=$1 AND NOT deleted AND NOT in_use
		`, d.ProductStockID, t.DestinationWarehouseID)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() == 0 {
			return nil, fmt.Errorf("позиция %s недоступна для перемещения", d.ProductStockID)
		}

		if _, err = tx.Exec(ctx, `
			INSERT INTO movements (actor_id, warehouse_id, stock_item_id, type, note)
			VALUES ($1,$2,$3,'transfer',$4)
		`, actorID, t.SourceWarehouseID, d.ProductStockID,
			fmt.Sprintf("-> %s (%s)", t.DestinationWarehouseID, t.Number)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

// Receive — приёмка на складе назначения: перемещённые позиции раскладываются
// в кабинет склада (если он назначен), перемещение помечается принятым.
func (r *Repo) Receive(ctx context.Context, actorID, transferID string, cabinetID *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var destination string
	var received bool
	err = tx.QueryRow(ctx, `
		SELECT destination_warehouse_id, received FROM transfers WHERE id=$1
	`, transferID).Scan(&destination, &received)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("перемещение не найдено")
	}
	if err != nil {
		return err
	}
	if received {
		return fmt.Errorf("перемещение уже принято")
	}

	if _, err = tx.Exec(ctx, `
		UPDATE stock_items SET cabinet_id=$3
		WHERE id IN (SELECT product_stock_id FROM transfer_details WHERE transfer_id=$1)
		  AND warehouse_id=$2
	`, transferID, destination, cabinetID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE transfers SET received=TRUE, received_at=now() WHERE id=$1
	`, transferID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO movements (actor_id, warehouse_id, stock_item_id, type, note)
		SELECT $1, $3, product_stock_id, 'in', 'приёмка перемещения'
		FROM transfer_details WHERE transfer_id=$2
	`, actorID, transferID, destination); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Transfer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, number, type, source_warehouse_id, destination_warehouse_id,
		       cabinet_id, notes, priority, scheduled_date, received, created_at
		FROM transfers WHERE id=$1
	`, id)
	var t Transfer
	if err := row.Scan(&t.ID, &t.Number, &t.Type, &t.SourceWarehouseID, &t.DestinationWarehouseID,
		&t.CabinetID, &t.Notes, &t.Priority, &t.ScheduledDate, &t.Received, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListByWarehouse(ctx context.Context, warehouseID string) ([]Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, type, source_warehouse_id, destination_warehouse_id,
		       cabinet_id, notes, priority, scheduled_date, received, created_at
		FROM transfers
		WHERE source_warehouse_id=$1 OR destination_warehouse_id=$1
		ORDER BY created_at DESC
	`, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.ID, &t.Number, &t.Type, &t.SourceWarehouseID, &t.DestinationWarehouseID,
			&t.CabinetID, &t.Notes, &t.Priority, &t.ScheduledDate, &t.Received, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) ListDetails(ctx context.Context, transferID string) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT transfer_id, product_stock_id, quantity, COALESCE(item_notes,'')
		FROM transfer_details WHERE transfer_id=$1
	`, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.TransferID, &d.ProductStockID, &d.QuantityTransferred, &d.ItemNotes); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
