package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRow proyección de stock actual por SKU (tabla inventory).
type InventoryRow struct {
	SKU       string
	Qty       int64
	UpdatedAt time.Time
}

// CurrentInventory fila de la vista de inventario unida con el catálogo.
type CurrentInventory struct {
	SKU         string
	Name        string
	Category    string
	Unit        string
	Location    string
	ProductKind string
	Qty         int64
	MinStock    int64
	UnitPrice   decimal.Decimal
	LastUpdated *time.Time
}

// StockValue valor del stock al precio de catálogo.
func (c CurrentInventory) StockValue() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(c.Qty))
}

// IsLowStock indica si la cantidad está por debajo del mínimo del catálogo.
func (c CurrentInventory) IsLowStock() bool {
	return c.MinStock > 0 && c.Qty < c.MinStock
}
