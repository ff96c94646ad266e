package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var errOutsideTx = errors.New("memory: escritura fuera de transacción")

// MovementRepository ledger en memoria. Con tx == nil solo admite lecturas.
type MovementRepository struct {
	s  *Store
	tx *txState
}

var _ repository.MovementRepository = (*MovementRepository)(nil)

// Movements devuelve el repositorio de solo lectura del ledger.
func (s *Store) Movements() *MovementRepository {
	return &MovementRepository{s: s}
}

func (r *MovementRepository) read(fn func()) {
	if r.tx == nil {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	fn()
}

// Create asigna IDs a cabecera, líneas y efectos y deja el movimiento pendiente de confirmación.
func (r *MovementRepository) Create(ctx context.Context, m *entity.Movement) error {
	if r.tx == nil {
		return errOutsideTx
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	for i := range m.Lines {
		if m.Lines[i].ID == "" {
			m.Lines[i].ID = uuid.NewString()
		}
		m.Lines[i].MovementID = m.ID
		m.Lines[i].CreatedAt = m.CreatedAt
	}
	for i := range m.Effects {
		if m.Effects[i].ID == "" {
			m.Effects[i].ID = uuid.NewString()
		}
		m.Effects[i].MovementID = m.ID
		m.Effects[i].CreatedAt = m.CreatedAt
	}
	if _, exists := r.s.movements[m.ID]; exists {
		return domain.ErrConflict
	}
	r.tx.created = append(r.tx.created, cloneMovement(m))
	return nil
}

// GetByID devuelve nil, nil si el movimiento no existe.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.read(func() {
		out = r.lookup(id)
	})
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya tiene el lock global.
func (r *MovementRepository) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	if r.tx == nil {
		return nil, errOutsideTx
	}
	return r.lookup(id), nil
}

func (r *MovementRepository) lookup(id string) *entity.Movement {
	var found *entity.Movement
	if m, ok := r.s.movements[id]; ok {
		found = cloneMovement(m)
	} else if r.tx != nil {
		for _, m := range r.tx.created {
			if m.ID == id {
				found = cloneMovement(m)
				break
			}
		}
	}
	if found != nil && r.tx != nil {
		if by, ok := r.tx.reversed[id]; ok {
			found.ReversedBy = by
		}
	}
	return found
}

// MarkReversed marca el original con el ID de su reverso.
func (r *MovementRepository) MarkReversed(ctx context.Context, id, reversalID string) error {
	if r.tx == nil {
		return errOutsideTx
	}
	m := r.lookup(id)
	if m == nil {
		return domain.ErrNotFound
	}
	if m.ReversedBy != "" {
		return domain.ErrConflict
	}
	r.tx.reversed[id] = reversalID
	return nil
}

// SumDeltas suma líneas y efectos de todo el ledger, incluidos los pendientes de la transacción.
func (r *MovementRepository) SumDeltas(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	add := func(m *entity.Movement) {
		for sku, d := range m.Deltas() {
			out[sku] += d
		}
	}
	r.read(func() {
		for _, id := range r.s.order {
			add(r.s.movements[id])
		}
		if r.tx != nil {
			for _, m := range r.tx.created {
				add(m)
			}
		}
	})
	return out, nil
}
