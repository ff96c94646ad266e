package dto

import (
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// MovementLineRequest una línea del cuerpo de POST /api/movements.
type MovementLineRequest struct {
	SKU       string `json:"sku" validate:"required,max=64"`
	QtyChange int64  `json:"qty_change"`
	Note      string `json:"note,omitempty" validate:"max=500"`
}

// SubmitMovementRequest body para POST /api/movements.
type SubmitMovementRequest struct {
	MovementType string                `json:"movement_type" validate:"required"`
	Channel      string                `json:"channel,omitempty" validate:"max=64"`
	ReasonCode   string                `json:"reason_code,omitempty" validate:"max=64"`
	Memo         string                `json:"memo,omitempty" validate:"max=500"`
	MovedAt      *time.Time            `json:"moved_at,omitempty"`
	Lines        []MovementLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// BatchSubmitRequest body para POST /api/movements/batch.
type BatchSubmitRequest struct {
	Movements []SubmitMovementRequest `json:"movements" validate:"required,min=1"`
}

// BundleRequest body para armar/desarmar bundles.
type BundleRequest struct {
	Quantity int64  `json:"quantity" validate:"gt=0"`
	Memo     string `json:"memo,omitempty" validate:"max=500"`
}

// MovementLineResponse línea aplicada.
type MovementLineResponse struct {
	ID        string `json:"id"`
	SKU       string `json:"sku"`
	QtyChange int64  `json:"qty_change"`
	Note      string `json:"note,omitempty"`
}

// MovementEffectResponse efecto derivado de la expansión de bundles.
type MovementEffectResponse struct {
	ID        string `json:"id"`
	SourceSKU string `json:"source_sku"`
	TargetSKU string `json:"target_sku"`
	QtyChange int64  `json:"qty_change"`
	Note      string `json:"note,omitempty"`
}

// MovementResponse movimiento creado o consultado.
type MovementResponse struct {
	ID           string                   `json:"id"`
	MovementType string                   `json:"movement_type"`
	Channel      string                   `json:"channel,omitempty"`
	ReasonCode   string                   `json:"reason_code,omitempty"`
	Memo         string                   `json:"memo,omitempty"`
	MovedAt      time.Time                `json:"moved_at"`
	CreatedBy    string                   `json:"created_by,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	ReversalOf   string                   `json:"reversal_of,omitempty"`
	ReversedBy   string                   `json:"reversed_by,omitempty"`
	Lines        []MovementLineResponse   `json:"lines"`
	Effects      []MovementEffectResponse `json:"effects"`
}

// ToMovementResponse mapea la entidad a la salida HTTP.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	out := MovementResponse{
		ID:           m.ID,
		MovementType: string(m.MovementType),
		Channel:      m.Channel,
		ReasonCode:   m.ReasonCode,
		Memo:         m.Memo,
		MovedAt:      m.MovedAt,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		ReversalOf:   m.ReversalOf,
		ReversedBy:   m.ReversedBy,
		Lines:        make([]MovementLineResponse, 0, len(m.Lines)),
		Effects:      make([]MovementEffectResponse, 0, len(m.Effects)),
	}
	for _, l := range m.Lines {
		out.Lines = append(out.Lines, MovementLineResponse{ID: l.ID, SKU: l.SKU, QtyChange: l.QtyChange, Note: l.Note})
	}
	for _, e := range m.Effects {
		out.Effects = append(out.Effects, MovementEffectResponse{
			ID: e.ID, SourceSKU: e.SourceSKU, TargetSKU: e.TargetSKU, QtyChange: e.QtyChange, Note: e.Note,
		})
	}
	return out
}

// BatchFailure un elemento rechazado del lote.
type BatchFailure struct {
	Index      int                `json:"index"`
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Shortfalls []domain.Shortfall `json:"shortfalls,omitempty"`
}

// BatchReport resultado de un envío por lotes: cada elemento se aplica o falla por separado.
type BatchReport struct {
	Total       int            `json:"total"`
	Succeeded   int            `json:"succeeded"`
	Skipped     int            `json:"skipped"`
	MovementIDs []string       `json:"movement_ids"`
	Failures    []BatchFailure `json:"failures"`
}
