package dto

import "github.com/jhoicas/wms-ledger/internal/domain"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o negativos.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. Shortfalls solo aparece con INSUFFICIENT_STOCK.
type ErrorResponse struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Shortfalls []domain.Shortfall `json:"shortfalls,omitempty"`
	SKUs       []string           `json:"skus,omitempty"`
	Fields     map[string]string  `json:"fields,omitempty"`
}
