package memory

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// InventoryRepository proyección en memoria. Con tx == nil solo admite lecturas.
type InventoryRepository struct {
	s  *Store
	tx *txState
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

// Inventory devuelve el repositorio de solo lectura de la proyección.
func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (r *InventoryRepository) qty(sku string) int64 {
	if r.tx != nil {
		if q, ok := r.tx.inv[sku]; ok {
			return q
		}
	}
	return r.s.qtyLocked(sku)
}

// QuantityOf devuelve 0 si el SKU no tiene fila.
func (r *InventoryRepository) QuantityOf(ctx context.Context, sku string) (int64, error) {
	if r.tx == nil {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	return r.qty(sku), nil
}

// LockForUpdate deja preparadas las filas de skus y devuelve su cantidad actual.
func (r *InventoryRepository) LockForUpdate(ctx context.Context, skus []string) (map[string]int64, error) {
	if r.tx == nil {
		return nil, errOutsideTx
	}
	out := make(map[string]int64, len(skus))
	for _, sku := range skus {
		q := r.qty(sku)
		r.tx.inv[sku] = q
		out[sku] = q
	}
	return out, nil
}

// ApplyDelta aplica delta; falla con ErrInsufficientStock si el resultado es negativo.
func (r *InventoryRepository) ApplyDelta(ctx context.Context, sku string, delta int64) (int64, error) {
	if r.tx == nil {
		return 0, errOutsideTx
	}
	cur := r.qty(sku)
	if delta > 0 && cur > math.MaxInt64-delta {
		return 0, domain.Invalid("%s: la cantidad resultante excede el máximo", sku)
	}
	next := cur + delta
	if next < 0 {
		return 0, domain.ErrInsufficientStock
	}
	r.tx.inv[sku] = next
	return next, nil
}

// Set fija la cantidad de la fila (reparación).
func (r *InventoryRepository) Set(ctx context.Context, sku string, qty int64) error {
	if r.tx == nil {
		return errOutsideTx
	}
	if qty < 0 {
		return domain.Invalid("cantidad negativa para %s: %d", sku, qty)
	}
	r.tx.inv[sku] = qty
	return nil
}

// ListAll devuelve todas las filas ordenadas por SKU.
func (r *InventoryRepository) ListAll(ctx context.Context) ([]entity.InventoryRow, error) {
	if r.tx == nil {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	rows := make(map[string]entity.InventoryRow, len(r.s.inventory))
	for sku, row := range r.s.inventory {
		rows[sku] = row
	}
	if r.tx != nil {
		for sku, q := range r.tx.inv {
			row := rows[sku]
			row.SKU, row.Qty = sku, q
			rows[sku] = row
		}
	}
	out := make([]entity.InventoryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// LockAll no hace nada: la transacción en memoria ya excluye a cualquier otra.
func (r *InventoryRepository) LockAll(ctx context.Context) error {
	if r.tx == nil {
		return errOutsideTx
	}
	return nil
}

// InventoryQueryRepository vista de inventario unida con el catálogo.
type InventoryQueryRepository struct {
	s *Store
}

var _ repository.InventoryQueryRepository = (*InventoryQueryRepository)(nil)

// InventoryQuery devuelve la vista de inventario actual.
func (s *Store) InventoryQuery() *InventoryQueryRepository {
	return &InventoryQueryRepository{s: s}
}

// List recorre los productos activos del catálogo; los SKUs sin fila aparecen con qty 0.
func (r *InventoryQueryRepository) List(ctx context.Context, f repository.InventoryFilter) ([]entity.CurrentInventory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	rows := make([]entity.CurrentInventory, 0, len(r.s.products))
	for _, p := range r.s.products {
		if !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.ProductKind != "" && p.ProductKind != f.ProductKind {
			continue
		}
		if search != "" &&
			!strings.HasPrefix(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		c := entity.CurrentInventory{
			SKU:         p.SKU,
			Name:        p.Name,
			Category:    p.Category,
			Unit:        p.Unit,
			Location:    p.Location,
			ProductKind: p.ProductKind,
			MinStock:    p.MinStock,
			UnitPrice:   p.Price,
		}
		if inv, ok := r.s.inventory[p.SKU]; ok {
			c.Qty = inv.Qty
			updated := inv.UpdatedAt
			c.LastUpdated = &updated
		}
		if f.LowStockOnly && !c.IsLowStock() {
			continue
		}
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })

	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			return []entity.CurrentInventory{}, nil
		}
		rows = rows[f.Offset:]
	}
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	return rows, nil
}
