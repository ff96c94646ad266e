package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// InventoryRowResponse fila de GET /api/inventory.
type InventoryRowResponse struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Location    string          `json:"location,omitempty"`
	ProductKind string          `json:"product_kind,omitempty"`
	Qty         int64           `json:"qty"`
	MinStock    int64           `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	StockValue  decimal.Decimal `json:"stock_value"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
}

// ToInventoryRowResponse mapea una fila de la vista de inventario.
func ToInventoryRowResponse(c entity.CurrentInventory) InventoryRowResponse {
	return InventoryRowResponse{
		SKU:         c.SKU,
		Name:        c.Name,
		Category:    c.Category,
		Unit:        c.Unit,
		Location:    c.Location,
		ProductKind: c.ProductKind,
		Qty:         c.Qty,
		MinStock:    c.MinStock,
		LowStock:    c.IsLowStock(),
		UnitPrice:   c.UnitPrice,
		StockValue:  c.StockValue(),
		LastUpdated: c.LastUpdated,
	}
}

// QuantityResponse salida de GET /api/inventory/:sku.
type QuantityResponse struct {
	SKU string `json:"sku"`
	Qty int64  `json:"qty"`
}

// LowStockSuggestionDTO SKU por debajo de su stock mínimo con la cantidad sugerida de reposición.
type LowStockSuggestionDTO struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	CurrentStock      int64           `json:"current_stock"`
	MinStock          int64           `json:"min_stock"`
	IdealStock        int64           `json:"ideal_stock"`         // ceil(MinStock * 1.5)
	SuggestedOrderQty int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`      // SuggestedOrderQty * UnitPrice
	Priority          int             `json:"priority"`            // 1 = más urgente
}

// CompositionRowResponse fila de GET /api/bundles.
type CompositionRowResponse struct {
	BundleSKU      string `json:"bundle_sku"`
	BundleName     string `json:"bundle_name"`
	ComponentSKU   string `json:"component_sku"`
	ComponentName  string `json:"component_name"`
	QtyPerBundle   int64  `json:"qty_per_bundle"`
	ComponentStock int64  `json:"component_stock"`
	// MaxAssemblable unidades de bundle que este componente permite armar.
	MaxAssemblable int64 `json:"max_assemblable"`
}

// ToCompositionRowResponse mapea una fila de composición.
func ToCompositionRowResponse(c entity.BundleComposition) CompositionRowResponse {
	var maxUnits int64
	if c.QtyPerBundle > 0 && c.ComponentStock > 0 {
		maxUnits = c.ComponentStock / c.QtyPerBundle
	}
	return CompositionRowResponse{
		BundleSKU:      c.BundleSKU,
		BundleName:     c.BundleName,
		ComponentSKU:   c.ComponentSKU,
		ComponentName:  c.ComponentName,
		QtyPerBundle:   c.QtyPerBundle,
		ComponentStock: c.ComponentStock,
		MaxAssemblable: maxUnits,
	}
}

// HistoryEntryResponse línea o efecto dentro del historial.
type HistoryEntryResponse struct {
	Kind        string `json:"kind"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name,omitempty"`
	QtyChange   int64  `json:"qty_change"`
	SourceSKU   string `json:"source_sku,omitempty"`
	Note        string `json:"note,omitempty"`
}

// HistoryRowResponse un movimiento en GET /api/history.
type HistoryRowResponse struct {
	MovementID   string                 `json:"movement_id"`
	MovementType string                 `json:"movement_type"`
	Channel      string                 `json:"channel,omitempty"`
	ReasonCode   string                 `json:"reason_code,omitempty"`
	ReasonLabel  string                 `json:"reason_label,omitempty"`
	Memo         string                 `json:"memo,omitempty"`
	MovedAt      time.Time              `json:"moved_at"`
	CreatedBy    string                 `json:"created_by,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	ReversalOf   string                 `json:"reversal_of,omitempty"`
	ReversedBy   string                 `json:"reversed_by,omitempty"`
	Entries      []HistoryEntryResponse `json:"entries"`
}

// ToHistoryRowResponse mapea una fila del historial.
func ToHistoryRowResponse(h entity.HistoryRow) HistoryRowResponse {
	out := HistoryRowResponse{
		MovementID:   h.MovementID,
		MovementType: string(h.MovementType),
		Channel:      h.Channel,
		ReasonCode:   h.ReasonCode,
		ReasonLabel:  h.ReasonLabel,
		Memo:         h.Memo,
		MovedAt:      h.MovedAt,
		CreatedBy:    h.CreatedBy,
		CreatedAt:    h.CreatedAt,
		ReversalOf:   h.ReversalOf,
		ReversedBy:   h.ReversedBy,
		Entries:      make([]HistoryEntryResponse, 0, len(h.Entries)),
	}
	for _, e := range h.Entries {
		out.Entries = append(out.Entries, HistoryEntryResponse(e))
	}
	return out
}

// ReasonCodeResponse código de motivo.
type ReasonCodeResponse struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Category string `json:"category"`
	IsActive bool   `json:"is_active"`
}

// ReconcileDiscrepancy SKU cuya proyección no coincide con la suma del ledger.
type ReconcileDiscrepancy struct {
	SKU          string `json:"sku"`
	ProjectedQty int64  `json:"projected_qty"`
	LedgerQty    int64  `json:"ledger_qty"`
	Difference   int64  `json:"difference"` // projected - ledger
}

// ReconcileReport resultado de la verificación offline de consistencia.
type ReconcileReport struct {
	CheckedSKUs   int                    `json:"checked_skus"`
	Discrepancies []ReconcileDiscrepancy `json:"discrepancies"`
	Repaired      bool                   `json:"repaired"`
	CheckedAt     time.Time              `json:"checked_at"`
}

// Consistent indica si no hay discrepancias.
func (r ReconcileReport) Consistent() bool { return len(r.Discrepancies) == 0 }
