package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// ReasonCodeRepository catálogo de códigos de motivo.
type ReasonCodeRepository interface {
	// Get devuelve nil, nil si el código no existe.
	Get(ctx context.Context, code string) (*entity.ReasonCode, error)
	List(ctx context.Context, activeOnly bool) ([]entity.ReasonCode, error)
}
