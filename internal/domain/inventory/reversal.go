package inventory

import (
	"fmt"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// Reverse construye el movimiento compensatorio de original: mismo tipo,
// líneas y efectos negados. Los efectos se copian del original y no se
// vuelven a expandir, así un cambio posterior en el registro de composición
// no altera el reverso.
func Reverse(original *entity.Movement) (*entity.Movement, error) {
	if original.ReversalOf != "" {
		return nil, fmt.Errorf("%w: %s ya es un reverso de %s", domain.ErrConflict, original.ID, original.ReversalOf)
	}
	if original.ReversedBy != "" {
		return nil, fmt.Errorf("%w: %s ya fue revertido por %s", domain.ErrConflict, original.ID, original.ReversedBy)
	}

	rev := &entity.Movement{
		MovementType: original.MovementType,
		Channel:      original.Channel,
		ReasonCode:   entity.ReasonReversal,
		Memo:         fmt.Sprintf("reverso de %s", original.ID),
		ReversalOf:   original.ID,
		Lines:        make([]entity.MovementLine, 0, len(original.Lines)),
		Effects:      make([]entity.MovementEffect, 0, len(original.Effects)),
	}
	for _, l := range original.Lines {
		rev.Lines = append(rev.Lines, entity.MovementLine{
			SKU:       l.SKU,
			QtyChange: -l.QtyChange,
			Note:      "reverso",
		})
	}
	for _, e := range original.Effects {
		rev.Effects = append(rev.Effects, entity.MovementEffect{
			SourceSKU: e.SourceSKU,
			TargetSKU: e.TargetSKU,
			QtyChange: -e.QtyChange,
			Note:      "reverso",
		})
	}
	return rev, nil
}
