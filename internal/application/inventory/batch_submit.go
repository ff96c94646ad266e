package inventory

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// BatchSubmitUseCase envía una lista de movimientos (carga masiva desde planilla).
// Cada elemento corre en su propia transacción: un fallo no revierte los anteriores
// y el lote continúa con el siguiente.
type BatchSubmitUseCase struct {
	submit   *SubmitMovementUseCase
	maxItems int
	log      *logger.Logger
}

// NewBatchSubmitUseCase construye el caso de uso. maxItems <= 0 desactiva el límite.
func NewBatchSubmitUseCase(submit *SubmitMovementUseCase, maxItems int, log *logger.Logger) *BatchSubmitUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BatchSubmitUseCase{submit: submit, maxItems: maxItems, log: log.Named("batch")}
}

// SubmitBatch aplica los elementos en orden. Si ctx se cancela, los restantes
// se cuentan como Skipped sin intentarse.
func (uc *BatchSubmitUseCase) SubmitBatch(ctx context.Context, items []MovementInputDTO) (*dto.BatchReport, error) {
	if len(items) == 0 {
		return nil, domain.Invalid("el lote está vacío")
	}
	if uc.maxItems > 0 && len(items) > uc.maxItems {
		return nil, domain.Invalid("el lote supera el máximo de %d movimientos", uc.maxItems)
	}

	report := &dto.BatchReport{
		Total:       len(items),
		MovementIDs: make([]string, 0, len(items)),
		Failures:    []dto.BatchFailure{},
	}
	for i, item := range items {
		if ctx.Err() != nil {
			report.Skipped = len(items) - i
			break
		}
		mov, err := uc.submit.Submit(ctx, item)
		if err != nil {
			report.Failures = append(report.Failures, dto.BatchFailure{
				Index:      i,
				Code:       domain.Code(err),
				Message:    err.Error(),
				Shortfalls: domain.ShortfallsOf(err),
			})
			continue
		}
		report.Succeeded++
		report.MovementIDs = append(report.MovementIDs, mov.ID)
	}

	uc.log.Info().
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", len(report.Failures)).
		Int("skipped", report.Skipped).
		Msg("lote procesado")
	return report, nil
}
