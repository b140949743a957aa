package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Warehouses */

func (r *Repo) CreateWarehouse(ctx context.Context, id, name string) (*Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO warehouses (id, name) VALUES ($1,$2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, active, created_at
	`, id, name)
	var w Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Active, &w.CreatedAt)
	if err == pgx.ErrNoRows {
		// Уже есть — вернём существующий
		return r.GetWarehouseByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repo) GetWarehouseByID(ctx context.Context, id string) (*Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, active, created_at
		FROM warehouses WHERE id=$1
	`, id)
	var w Warehouse
	if err := row.Scan(&w.ID, &w.Name, &w.Active, &w.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *Repo) GetWarehouseByName(ctx context.Context, name string) (*Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, active, created_at
		FROM warehouses WHERE name = $1
	`, name)
	var w Warehouse
	if err := row.Scan(&w.ID, &w.Name, &w.Active, &w.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *Repo) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, active, created_at
		FROM warehouses
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Active, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repo) SetWarehouseActive(ctx context.Context, id string, active bool) (*Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE warehouses SET active=$2 WHERE id=$1
		RETURNING id, name, active, created_at
	`, id, active)
	var w Warehouse
	if err := row.Scan(&w.ID, &w.Name, &w.Active, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

/* Cabinet mappings */

func (r *Repo) GetCabinetMapping(ctx context.Context, warehouseID string) (*CabinetMapping, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT warehouse_id, cabinet_id, COALESCE(cabinet_name,'')
		FROM warehouse_cabinets WHERE warehouse_id=$1
	`, warehouseID)
	var m CabinetMapping
	if err := row.Scan(&m.WarehouseID, &m.CabinetID, &m.CabinetName); err != nil {
		if err == pgx.ErrNoRows {
			// Нет записи — склад без кабинета, то есть ЦС
			return &CabinetMapping{WarehouseID: warehouseID}, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) SetCabinetMapping(ctx context.Context, warehouseID string, cabinetID *string, cabinetName string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO warehouse_cabinets (warehouse_id, cabinet_id, cabinet_name)
		VALUES ($1,$2,$3)
		ON CONFLICT (warehouse_id) DO UPDATE SET
		  cabinet_id=$2, cabinet_name=$3
	`, warehouseID, cabinetID, cabinetName)
	return err
}

// ListDistributionCenters возвращает id складов без кабинета.
func (r *Repo) ListDistributionCenters(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.id
		FROM warehouses w
		LEFT JOIN warehouse_cabinets c ON c.warehouse_id = w.id AND c.cabinet_id IS NOT NULL
		WHERE c.warehouse_id IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

/* Products */

func (r *Repo) UpsertProduct(ctx context.Context, p Product) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (barcode, title, category, cost, actual_cost)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (barcode) DO UPDATE SET
		  title=EXCLUDED.title, category=EXCLUDED.category,
		  cost=EXCLUDED.cost, actual_cost=EXCLUDED.actual_cost
	`, p.Barcode, p.Title, p.Category, p.Cost, p.ActualCost)
	return err
}

func (r *Repo) GetProduct(ctx context.Context, barcode int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT barcode, title, COALESCE(category,''), cost, actual_cost, created_at
		FROM products WHERE barcode=$1
	`, barcode)
	var p Product
	if err := row.Scan(&p.Barcode, &p.Title, &p.Category, &p.Cost, &p.ActualCost, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT barcode, title, COALESCE(category,''), cost, actual_cost, created_at
		FROM products
		ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Barcode, &p.Title, &p.Category, &p.Cost, &p.ActualCost, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
