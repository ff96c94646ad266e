package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta cabecera, líneas y efectos. Las líneas y efectos van en un único batch.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, movement_type, channel, reason_code, memo, moved_at, created_by, created_at, reversal_of)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, '')::uuid)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.MovementType), m.Channel, m.ReasonCode, m.Memo,
		m.MovedAt, m.CreatedBy, m.CreatedAt, m.ReversalOf,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movimiento %s ya existe o ya fue revertido", domain.ErrConflict, m.ID)
		}
		return mapPgError("create movement", err)
	}

	batch := &pgx.Batch{}
	for i := range m.Lines {
		l := &m.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.MovementID, l.CreatedAt = m.ID, m.CreatedAt
		batch.Queue(`
			INSERT INTO movement_lines (id, movement_id, line_no, sku, qty_change, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, m.ID, i+1, l.SKU, l.QtyChange, l.Note, l.CreatedAt)
	}
	for i := range m.Effects {
		e := &m.Effects[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.MovementID, e.CreatedAt = m.ID, m.CreatedAt
		batch.Queue(`
			INSERT INTO movement_effects (id, movement_id, line_no, source_sku, target_sku, qty_change, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, m.ID, i+1, e.SourceSKU, e.TargetSKU, e.QtyChange, e.Note, e.CreatedAt)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError("create movement lines", err)
	}
	return nil
}

const movementColumns = `
	id::text, movement_type, channel, COALESCE(reason_code, ''), memo, moved_at,
	created_by, created_at, COALESCE(reversal_of::text, ''), COALESCE(reversed_by::text, '')`

// GetByID devuelve nil, nil si no existe (o si el id no es un UUID).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) hasta el fin de la transacción.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, true)
}

func (r *MovementRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Movement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var m entity.Movement
	var movType string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &movType, &m.Channel, &m.ReasonCode, &m.Memo, &m.MovedAt,
		&m.CreatedBy, &m.CreatedAt, &m.ReversalOf, &m.ReversedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPgError("get movement", err)
	}
	m.MovementType = entity.MovementType(movType)

	if m.Lines, err = r.lines(ctx, m.ID); err != nil {
		return nil, err
	}
	if m.Effects, err = r.effects(ctx, m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MovementRepo) lines(ctx context.Context, movementID string) ([]entity.MovementLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, movement_id::text, sku, qty_change, note, created_at
		FROM movement_lines WHERE movement_id = $1 ORDER BY line_no`, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	var out []entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.SKU, &l.QtyChange, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *MovementRepo) effects(ctx context.Context, movementID string) ([]entity.MovementEffect, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, movement_id::text, source_sku, target_sku, qty_change, note, created_at
		FROM movement_effects WHERE movement_id = $1 ORDER BY line_no`, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement effects: %w", err)
	}
	defer rows.Close()
	var out []entity.MovementEffect
	for rows.Next() {
		var e entity.MovementEffect
		if err := rows.Scan(&e.ID, &e.MovementID, &e.SourceSKU, &e.TargetSKU, &e.QtyChange, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement effect: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkReversed fija reversed_by solo si aún no estaba marcado.
func (r *MovementRepo) MarkReversed(ctx context.Context, id, reversalID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE movements SET reversed_by = $2
		WHERE id = $1 AND reversed_by IS NULL`, id, reversalID)
	if err != nil {
		return mapPgError("mark reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %s ya revertido", domain.ErrConflict, id)
	}
	return nil
}

// SumDeltas suma líneas y efectos por SKU sobre todo el ledger.
func (r *MovementRepo) SumDeltas(ctx context.Context) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT sku, SUM(qty_change)::bigint FROM (
			SELECT sku, qty_change FROM movement_lines
			UNION ALL
			SELECT target_sku, qty_change FROM movement_effects
		) d
		GROUP BY sku`)
	if err != nil {
		return nil, fmt.Errorf("sum deltas: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var sku string
		var sum int64
		if err := rows.Scan(&sku, &sum); err != nil {
			return nil, fmt.Errorf("scan ledger sum: %w", err)
		}
		out[sku] = sum
	}
	return out, rows.Err()
}
