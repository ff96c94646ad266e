package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HistoryReportUseCase arma el PDF del historial a partir de QueryUseCase.
type HistoryReportUseCase struct {
	query    *QueryUseCase
	renderer HistoryReportRenderer
	now      func() time.Time
}

// NewHistoryReportUseCase construye el caso de uso.
func NewHistoryReportUseCase(query *QueryUseCase, renderer HistoryReportRenderer) *HistoryReportUseCase {
	return &HistoryReportUseCase{query: query, renderer: renderer, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *HistoryReportUseCase) WithClock(now func() time.Time) *HistoryReportUseCase {
	uc.now = now
	return uc
}

// Generate aplica los mismos límites que HistoryRows y renderiza el resultado.
func (uc *HistoryReportUseCase) Generate(ctx context.Context, sku string, limit int) ([]byte, error) {
	sku = strings.TrimSpace(sku)
	rows, err := uc.query.HistoryRows(ctx, sku, limit)
	if err != nil {
		return nil, err
	}
	out, err := uc.renderer.RenderHistory(ctx, sku, rows, uc.now())
	if err != nil {
		return nil, fmt.Errorf("history report: %w", err)
	}
	return out, nil
}
