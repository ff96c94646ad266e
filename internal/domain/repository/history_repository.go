package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// HistoryFilter filtros del historial de movimientos.
type HistoryFilter struct {
	SKU   string // vacío = todos
	Limit int
}

// HistoryRepository vista desnormalizada del ledger para auditoría. Sin escrituras.
type HistoryRepository interface {
	List(ctx context.Context, filter HistoryFilter) ([]entity.HistoryRow, error)
}
