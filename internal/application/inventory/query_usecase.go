package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// HistoryLimits límites de filas del historial.
type HistoryLimits struct {
	Default int
	Max     int
}

// QueryUseCase lecturas del ledger y de la proyección. No modifica estado.
type QueryUseCase struct {
	movements repository.MovementRepository
	inventory repository.InventoryRepository
	invQuery  repository.InventoryQueryRepository
	bundles   repository.BundleRepository
	history   repository.HistoryRepository
	reasons   repository.ReasonCodeRepository
	limits    HistoryLimits
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	movements repository.MovementRepository,
	inventory repository.InventoryRepository,
	invQuery repository.InventoryQueryRepository,
	bundles repository.BundleRepository,
	history repository.HistoryRepository,
	reasons repository.ReasonCodeRepository,
	limits HistoryLimits,
) *QueryUseCase {
	if limits.Default <= 0 {
		limits.Default = 100
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &QueryUseCase{
		movements: movements,
		inventory: inventory,
		invQuery:  invQuery,
		bundles:   bundles,
		history:   history,
		reasons:   reasons,
		limits:    limits,
	}
}

// GetMovement devuelve cabecera, líneas y efectos.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("id de movimiento vacío")
	}
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return m, nil
}

// QuantityOf cantidad proyectada de un SKU (0 si nunca se movió).
func (uc *QueryUseCase) QuantityOf(ctx context.Context, sku string) (int64, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return 0, domain.Invalid("SKU vacío")
	}
	return uc.inventory.QuantityOf(ctx, sku)
}

// CurrentInventory vista de inventario unida con el catálogo.
func (uc *QueryUseCase) CurrentInventory(ctx context.Context, filter repository.InventoryFilter) ([]dto.InventoryRowResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	filter.Search = strings.TrimSpace(filter.Search)

	rows, err := uc.invQuery.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToInventoryRowResponse(r))
	}
	return out, nil
}

// BundleComposition filas de composición; bundleSKU vacío lista todos los bundles.
func (uc *QueryUseCase) BundleComposition(ctx context.Context, bundleSKU string) ([]dto.CompositionRowResponse, error) {
	rows, err := uc.bundles.ListComposition(ctx, strings.TrimSpace(bundleSKU))
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompositionRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToCompositionRowResponse(r))
	}
	return out, nil
}

// HistoryRows historial como entidades (lo usa también el reporte PDF).
func (uc *QueryUseCase) HistoryRows(ctx context.Context, sku string, limit int) ([]entity.HistoryRow, error) {
	switch {
	case limit < 0:
		return nil, domain.Invalid("limit negativo: %d", limit)
	case limit == 0:
		limit = uc.limits.Default
	case limit > uc.limits.Max:
		limit = uc.limits.Max
	}
	return uc.history.List(ctx, repository.HistoryFilter{SKU: strings.TrimSpace(sku), Limit: limit})
}

// MovementHistory historial ordenado por moved_at y created_at descendentes.
func (uc *QueryUseCase) MovementHistory(ctx context.Context, sku string, limit int) ([]dto.HistoryRowResponse, error) {
	rows, err := uc.HistoryRows(ctx, sku, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToHistoryRowResponse(r))
	}
	return out, nil
}

// ReasonCodes catálogo de motivos.
func (uc *QueryUseCase) ReasonCodes(ctx context.Context, activeOnly bool) ([]dto.ReasonCodeResponse, error) {
	list, err := uc.reasons.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReasonCodeResponse, 0, len(list))
	for _, rc := range list {
		out = append(out, dto.ReasonCodeResponse{
			Code:     rc.Code,
			Label:    rc.Label,
			Category: string(rc.Category),
			IsActive: rc.IsActive,
		})
	}
	return out, nil
}
