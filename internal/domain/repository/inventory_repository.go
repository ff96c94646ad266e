package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// InventoryRepository puerto de la proyección de stock por SKU.
// Las escrituras solo ocurren dentro del apply transaccional del ledger o de la reparación.
type InventoryRepository interface {
	// QuantityOf devuelve 0 si el SKU no tiene fila todavía.
	QuantityOf(ctx context.Context, sku string) (int64, error)
	// LockForUpdate crea las filas faltantes con qty 0 y bloquea todas en orden de SKU.
	LockForUpdate(ctx context.Context, skus []string) (map[string]int64, error)
	// ApplyDelta suma delta a la fila; devuelve ErrInsufficientStock si quedaría negativa.
	ApplyDelta(ctx context.Context, sku string, delta int64) (int64, error)
	// Set fija la cantidad (solo reparación de reconciliación).
	Set(ctx context.Context, sku string, qty int64) error
	ListAll(ctx context.Context) ([]entity.InventoryRow, error)
	// LockAll bloquea la proyección completa contra escrituras concurrentes (reconciliación).
	LockAll(ctx context.Context) error
}

// InventoryFilter filtros de la vista de inventario actual.
type InventoryFilter struct {
	Search       string // prefijo de SKU o fragmento de nombre
	Category     string
	ProductKind  string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// InventoryQueryRepository lecturas de la vista de inventario unida con el catálogo.
type InventoryQueryRepository interface {
	List(ctx context.Context, filter InventoryFilter) ([]entity.CurrentInventory, error)
}
