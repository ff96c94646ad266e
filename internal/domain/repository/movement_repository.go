package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// MovementRepository puerto de persistencia del ledger (cabecera + líneas + efectos).
// Solo se obtiene atado a una transacción vía TxRunner para escrituras.
type MovementRepository interface {
	// Create persiste cabecera, líneas y efectos. Asigna IDs vacíos.
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// MarkReversed registra en el original el ID del movimiento que lo compensa.
	MarkReversed(ctx context.Context, id, reversalID string) error
	// SumDeltas recorre todo el ledger y suma líneas + efectos por SKU (reconciliación).
	SumDeltas(ctx context.Context) (map[string]int64, error)
}
