package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo proyección de stock por SKU (tabla inventory).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// QuantityOf devuelve 0 si el SKU no tiene fila.
func (r *InventoryRepo) QuantityOf(ctx context.Context, sku string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `SELECT qty FROM inventory WHERE sku = $1`, sku).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get inventory: %w", err)
	}
	return qty, nil
}

// LockForUpdate crea las filas faltantes con qty 0 y las bloquea (SELECT FOR UPDATE) en orden de SKU.
// Debe llamarse dentro de una transacción.
func (r *InventoryRepo) LockForUpdate(ctx context.Context, skus []string) (map[string]int64, error) {
	out := make(map[string]int64, len(skus))
	if len(skus) == 0 {
		return out, nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (sku, qty)
		SELECT s, 0 FROM unnest($1::text[]) AS s ORDER BY s
		ON CONFLICT (sku) DO NOTHING`, skus)
	if err != nil {
		return nil, mapPgError("ensure inventory rows", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT sku, qty FROM inventory
		WHERE sku = ANY($1)
		ORDER BY sku
		FOR UPDATE`, skus)
	if err != nil {
		return nil, mapPgError("lock inventory rows", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sku string
		var qty int64
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, fmt.Errorf("scan locked inventory row: %w", err)
		}
		out[sku] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("lock inventory rows", err)
	}
	return out, nil
}

// ApplyDelta actualiza con guard qty + delta >= 0; si no afecta filas el stock no alcanza.
func (r *InventoryRepo) ApplyDelta(ctx context.Context, sku string, delta int64) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		UPDATE inventory SET qty = qty + $2, updated_at = now()
		WHERE sku = $1 AND qty + $2 >= 0
		RETURNING qty`, sku, delta).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, mapPgError("apply delta", err)
	}
	return qty, nil
}

// Set fija la cantidad (reparación de reconciliación).
func (r *InventoryRepo) Set(ctx context.Context, sku string, qty int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (sku, qty, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (sku) DO UPDATE SET qty = EXCLUDED.qty, updated_at = now()`, sku, qty)
	return mapPgError("set inventory", err)
}

// ListAll devuelve todas las filas ordenadas por SKU.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]entity.InventoryRow, error) {
	rows, err := r.q.Query(ctx, `SELECT sku, qty, updated_at FROM inventory ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var out []entity.InventoryRow
	for rows.Next() {
		var row entity.InventoryRow
		if err := rows.Scan(&row.SKU, &row.Qty, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LockAll toma un lock EXCLUSIVE sobre inventory: bloquea todo apply concurrente
// (que necesita FOR UPDATE) hasta el fin de la transacción, sin bloquear lecturas simples.
func (r *InventoryRepo) LockAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `LOCK TABLE inventory IN EXCLUSIVE MODE`)
	return mapPgError("lock inventory", err)
}

var _ repository.InventoryQueryRepository = (*InventoryQueryRepo)(nil)

// InventoryQueryRepo lecturas de v_current_inventory.
type InventoryQueryRepo struct {
	q Querier
}

// NewInventoryQueryRepository construye el adaptador de lectura.
func NewInventoryQueryRepository(q Querier) *InventoryQueryRepo {
	return &InventoryQueryRepo{q: q}
}

// List filtra por búsqueda (prefijo de SKU o fragmento de nombre), categoría, tipo y bajo mínimo.
func (r *InventoryQueryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]entity.CurrentInventory, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT sku, name, category, unit, location, product_kind, qty, min_stock, price, updated_at
		FROM v_current_inventory
		WHERE ($1 = '' OR sku ILIKE $1 || '%' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR product_kind = $3)
		  AND (NOT $4 OR (min_stock > 0 AND qty < min_stock))
		ORDER BY sku
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, f.Search, f.Category, f.ProductKind, f.LowStockOnly, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list current inventory: %w", err)
	}
	defer rows.Close()

	out := []entity.CurrentInventory{}
	for rows.Next() {
		var c entity.CurrentInventory
		if err := rows.Scan(
			&c.SKU, &c.Name, &c.Category, &c.Unit, &c.Location, &c.ProductKind,
			&c.Qty, &c.MinStock, &c.UnitPrice, &c.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan current inventory: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
