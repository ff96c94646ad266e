package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// HistoryRepository historial desnormalizado sobre el ledger en memoria.
type HistoryRepository struct {
	s *Store
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// History devuelve la vista de historial.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{s: s}
}

// List ordena por moved_at y created_at descendentes. El filtro por SKU
// incluye movimientos donde el SKU aparece como línea o como efecto.
func (r *HistoryRepository) List(ctx context.Context, f repository.HistoryFilter) ([]entity.HistoryRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	movs := make([]*entity.Movement, 0, len(r.s.order))
	for _, id := range r.s.order {
		m := r.s.movements[id]
		if f.SKU != "" && !m.Touches(f.SKU) {
			continue
		}
		movs = append(movs, m)
	}
	sort.SliceStable(movs, func(i, j int) bool {
		if !movs[i].MovedAt.Equal(movs[j].MovedAt) {
			return movs[i].MovedAt.After(movs[j].MovedAt)
		}
		return movs[i].CreatedAt.After(movs[j].CreatedAt)
	})
	if f.Limit > 0 && len(movs) > f.Limit {
		movs = movs[:f.Limit]
	}

	out := make([]entity.HistoryRow, 0, len(movs))
	for _, m := range movs {
		row := entity.HistoryRow{
			MovementID:   m.ID,
			MovementType: m.MovementType,
			Channel:      m.Channel,
			ReasonCode:   m.ReasonCode,
			ReasonLabel:  r.s.reasons[m.ReasonCode].Label,
			Memo:         m.Memo,
			MovedAt:      m.MovedAt,
			CreatedBy:    m.CreatedBy,
			CreatedAt:    m.CreatedAt,
			ReversalOf:   m.ReversalOf,
			ReversedBy:   m.ReversedBy,
			Entries:      make([]entity.HistoryEntry, 0, len(m.Lines)+len(m.Effects)),
		}
		for _, l := range m.Lines {
			row.Entries = append(row.Entries, entity.HistoryEntry{
				Kind:        entity.EntryLine,
				SKU:         l.SKU,
				ProductName: r.s.products[l.SKU].Name,
				QtyChange:   l.QtyChange,
				Note:        l.Note,
			})
		}
		for _, e := range m.Effects {
			row.Entries = append(row.Entries, entity.HistoryEntry{
				Kind:        entity.EntryEffect,
				SKU:         e.TargetSKU,
				ProductName: r.s.products[e.TargetSKU].Name,
				QtyChange:   e.QtyChange,
				SourceSKU:   e.SourceSKU,
				Note:        e.Note,
			})
		}
		out = append(out, row)
	}
	return out, nil
}
