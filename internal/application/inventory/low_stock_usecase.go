package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// lowStockScanLimit tope de filas leídas de la vista para armar la lista.
const lowStockScanLimit = 500

// LowStockUseCase genera la lista de reposición: SKUs bajo su stock mínimo de catálogo.
type LowStockUseCase struct {
	invQuery repository.InventoryQueryRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(invQuery repository.InventoryQueryRepository) *LowStockUseCase {
	return &LowStockUseCase{invQuery: invQuery}
}

// List devuelve los SKUs bajo mínimo con la cantidad sugerida de pedido,
// ordenados por déficit absoluto (prioridad 1 = más urgente).
func (uc *LowStockUseCase) List(ctx context.Context, category string) ([]dto.LowStockSuggestionDTO, error) {
	rows, err := uc.invQuery.List(ctx, repository.InventoryFilter{
		Category:     category,
		LowStockOnly: true,
		Limit:        lowStockScanLimit,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.LowStockSuggestionDTO{}, nil
	}

	out := make([]dto.LowStockSuggestionDTO, 0, len(rows))
	for _, r := range rows {
		if !r.IsLowStock() {
			continue
		}
		// ideal = ceil(min * 1.5)
		ideal := (r.MinStock*3 + 1) / 2
		suggested := ideal - r.Qty
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.LowStockSuggestionDTO{
			SKU:               r.SKU,
			Name:              r.Name,
			CurrentStock:      r.Qty,
			MinStock:          r.MinStock,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
			EstimatedCost:     r.UnitPrice.Mul(decimal.NewFromInt(suggested)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		defA, defB := a.MinStock-a.CurrentStock, b.MinStock-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.SKU < b.SKU
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
