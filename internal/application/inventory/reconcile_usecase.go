package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// ReconcileUseCase compara la proyección con la suma del ledger (líneas + efectos) por SKU.
type ReconcileUseCase struct {
	txRunner TxRunner
	metrics  MetricsRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner, metrics MetricsRecorder, log *logger.Logger) *ReconcileUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileUseCase{txRunner: txRunner, metrics: metrics, log: log.Named("reconcile"), now: time.Now}
}

// Reconcile recorre todo el ledger bajo bloqueo de la proyección. Con repair=true
// reescribe las filas divergentes con el valor del ledger en la misma transacción.
// Un valor de ledger negativo no se repara (violaría qty >= 0) y queda en el reporte.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, repair bool) (*dto.ReconcileReport, error) {
	report := &dto.ReconcileReport{Discrepancies: []dto.ReconcileDiscrepancy{}}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
		_ repository.BundleRepository,
	) error {
		if err := invRepo.LockAll(ctx); err != nil {
			return err
		}
		ledger, err := movRepo.SumDeltas(ctx)
		if err != nil {
			return err
		}
		rows, err := invRepo.ListAll(ctx)
		if err != nil {
			return err
		}

		projected := make(map[string]int64, len(rows))
		for _, r := range rows {
			projected[r.SKU] = r.Qty
		}
		skus := make(map[string]struct{}, len(rows)+len(ledger))
		for sku := range projected {
			skus[sku] = struct{}{}
		}
		for sku := range ledger {
			skus[sku] = struct{}{}
		}
		report.CheckedSKUs = len(skus)

		for sku := range skus {
			p, l := projected[sku], ledger[sku]
			if p == l {
				continue
			}
			report.Discrepancies = append(report.Discrepancies, dto.ReconcileDiscrepancy{
				SKU: sku, ProjectedQty: p, LedgerQty: l, Difference: p - l,
			})
		}
		sort.Slice(report.Discrepancies, func(i, j int) bool {
			return report.Discrepancies[i].SKU < report.Discrepancies[j].SKU
		})

		if !repair || len(report.Discrepancies) == 0 {
			return nil
		}
		repaired := true
		for _, d := range report.Discrepancies {
			if d.LedgerQty < 0 {
				repaired = false
				uc.log.Error().Str("sku", d.SKU).Int64("ledger_qty", d.LedgerQty).Msg("suma de ledger negativa, no se repara")
				continue
			}
			if err := invRepo.Set(ctx, d.SKU, d.LedgerQty); err != nil {
				return err
			}
		}
		report.Repaired = repaired
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.CheckedAt = uc.now()
	uc.metrics.ReconcileFinished(len(report.Discrepancies))
	ev := uc.log.Info()
	if len(report.Discrepancies) > 0 {
		ev = uc.log.Warn()
	}
	ev.Int("checked_skus", report.CheckedSKUs).
		Int("discrepancies", len(report.Discrepancies)).
		Bool("repaired", report.Repaired).
		Msg("reconciliación finalizada")
	return report, nil
}
