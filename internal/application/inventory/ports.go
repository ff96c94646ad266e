package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén durable,
// pasando repositorios atados a esa tx. Commit si fn devuelve nil, Rollback en
// cualquier otro caso (incluida la cancelación del contexto).
// Los fallos de serialización del almacén deben devolverse como domain.ErrConcurrentConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
		bundleRepo repository.BundleRepository,
	) error) error
}

// MetricsRecorder recibe los resultados del ledger. Lo implementa infrastructure/metrics.
type MetricsRecorder interface {
	MovementApplied(movementType string, lines, effects int, elapsed time.Duration)
	MovementRejected(movementType, code string)
	ReconcileFinished(discrepancies int)
}

type nopMetrics struct{}

func (nopMetrics) MovementApplied(string, int, int, time.Duration) {}
func (nopMetrics) MovementRejected(string, string)                 {}
func (nopMetrics) ReconcileFinished(int)                           {}

// NopMetrics descarta las métricas.
func NopMetrics() MetricsRecorder { return nopMetrics{} }

// HistoryReportRenderer genera el reporte imprimible del historial. Lo implementa infrastructure/pdf.
type HistoryReportRenderer interface {
	RenderHistory(ctx context.Context, filterSKU string, rows []entity.HistoryRow, generatedAt time.Time) ([]byte, error)
}
