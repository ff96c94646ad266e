package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// DeleteMovementUseCase "elimina" un movimiento registrando su reverso compensatorio.
// El ledger es append-only: nunca se borra una fila.
type DeleteMovementUseCase struct {
	txRunner TxRunner
	metrics  MetricsRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewDeleteMovementUseCase construye el caso de uso.
func NewDeleteMovementUseCase(txRunner TxRunner, metrics MetricsRecorder, log *logger.Logger) *DeleteMovementUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DeleteMovementUseCase{txRunner: txRunner, metrics: metrics, log: log.Named("ledger"), now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *DeleteMovementUseCase) WithClock(now func() time.Time) *DeleteMovementUseCase {
	uc.now = now
	return uc
}

// Delete registra el reverso de movementID y marca el original.
// El reverso pasa por la misma verificación de stock no negativo: revertir una entrada
// ya consumida falla con INSUFFICIENT_STOCK.
func (uc *DeleteMovementUseCase) Delete(ctx context.Context, movementID, actor string) (*entity.Movement, error) {
	start := uc.now()
	var reversal *entity.Movement

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
		_ repository.BundleRepository,
	) error {
		original, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if original == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, movementID)
		}
		rev, err := inventory.Reverse(original)
		if err != nil {
			return err
		}
		now := uc.now()
		rev.MovedAt = now
		rev.CreatedAt = now
		rev.CreatedBy = actor

		if err := applyMovement(ctx, movRepo, invRepo, rev); err != nil {
			return err
		}
		if err := movRepo.MarkReversed(ctx, original.ID, rev.ID); err != nil {
			return err
		}
		reversal = rev
		return nil
	})
	if err != nil {
		uc.metrics.MovementRejected("REVERSAL", domain.Code(err))
		uc.log.Warn().Err(err).Str("movement_id", movementID).Str("code", domain.Code(err)).Msg("reverso rechazado")
		return nil, err
	}

	uc.metrics.MovementApplied(string(reversal.MovementType), len(reversal.Lines), len(reversal.Effects), uc.now().Sub(start))
	uc.log.Info().
		Str("movement_id", reversal.ID).
		Str("reversal_of", movementID).
		Str("actor", actor).
		Msg("movimiento revertido")
	return reversal, nil
}
