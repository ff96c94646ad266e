package inventory

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// InputFromRequest adapta el body HTTP al DTO del caso de uso. actor es el usuario del token.
func InputFromRequest(actor string, req dto.SubmitMovementRequest) MovementInputDTO {
	lines := make([]LineInputDTO, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, LineInputDTO{SKU: l.SKU, QtyChange: l.QtyChange, Note: l.Note})
	}
	return MovementInputDTO{
		MovementType: req.MovementType,
		Channel:      req.Channel,
		ReasonCode:   req.ReasonCode,
		Memo:         req.Memo,
		MovedAt:      req.MovedAt,
		CreatedBy:    actor,
		Lines:        lines,
	}
}

// SubmitFromRequest registra un movimiento desde el body de POST /api/movements.
func (uc *SubmitMovementUseCase) SubmitFromRequest(ctx context.Context, actor string, req dto.SubmitMovementRequest) (*entity.Movement, error) {
	return uc.Submit(ctx, InputFromRequest(actor, req))
}

// SubmitBatchFromRequest registra un lote desde el body de POST /api/movements/batch.
func (uc *BatchSubmitUseCase) SubmitBatchFromRequest(ctx context.Context, actor string, req dto.BatchSubmitRequest) (*dto.BatchReport, error) {
	items := make([]MovementInputDTO, 0, len(req.Movements))
	for _, m := range req.Movements {
		items = append(items, InputFromRequest(actor, m))
	}
	return uc.SubmitBatch(ctx, items)
}
