package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo vista desnormalizada del ledger.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// List devuelve una fila por movimiento con sus líneas y efectos. Dos consultas:
// cabeceras paginadas y luego todas las entradas de esas cabeceras.
func (r *HistoryRepo) List(ctx context.Context, f repository.HistoryFilter) ([]entity.HistoryRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id::text, m.movement_type, m.channel, COALESCE(m.reason_code, ''), COALESCE(rc.label, ''),
		       m.memo, m.moved_at, m.created_by, m.created_at,
		       COALESCE(m.reversal_of::text, ''), COALESCE(m.reversed_by::text, '')
		FROM movements m
		LEFT JOIN reason_codes rc ON rc.code = m.reason_code
		WHERE $1 = ''
		   OR EXISTS (SELECT 1 FROM movement_lines l WHERE l.movement_id = m.id AND l.sku = $1)
		   OR EXISTS (SELECT 1 FROM movement_effects e WHERE e.movement_id = m.id AND (e.target_sku = $1 OR e.source_sku = $1))
		ORDER BY m.moved_at DESC, m.created_at DESC
		LIMIT NULLIF($2::int, 0)`, f.SKU, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := []entity.HistoryRow{}
	index := make(map[string]int)
	ids := []string{}
	for rows.Next() {
		var h entity.HistoryRow
		var movType string
		if err := rows.Scan(&h.MovementID, &movType, &h.Channel, &h.ReasonCode, &h.ReasonLabel,
			&h.Memo, &h.MovedAt, &h.CreatedBy, &h.CreatedAt, &h.ReversalOf, &h.ReversedBy); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		h.MovementType = entity.MovementType(movType)
		h.Entries = []entity.HistoryEntry{}
		index[h.MovementID] = len(out)
		ids = append(ids, h.MovementID)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	rows.Close()
	if len(ids) == 0 {
		return out, nil
	}

	entries, err := r.q.Query(ctx, `
		SELECT x.movement_id::text, x.kind, x.sku, COALESCE(p.name, ''), x.qty_change, x.source_sku, x.note
		FROM (
			SELECT movement_id, 'LINE' AS kind, 0 AS ord, line_no, sku, qty_change, '' AS source_sku, note
			FROM movement_lines WHERE movement_id = ANY($1::uuid[])
			UNION ALL
			SELECT movement_id, 'EFFECT', 1, line_no, target_sku, qty_change, source_sku, note
			FROM movement_effects WHERE movement_id = ANY($1::uuid[])
		) x
		LEFT JOIN products p ON p.sku = x.sku
		ORDER BY x.movement_id, x.ord, x.line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	defer entries.Close()
	for entries.Next() {
		var movementID string
		var e entity.HistoryEntry
		if err := entries.Scan(&movementID, &e.Kind, &e.SKU, &e.ProductName, &e.QtyChange, &e.SourceSKU, &e.Note); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if i, ok := index[movementID]; ok {
			out[i].Entries = append(out[i].Entries, e)
		}
	}
	return out, entries.Err()
}
