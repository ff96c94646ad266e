package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	appinv "github.com/jhoicas/wms-ledger/internal/application/inventory"
)

type recordingMetrics struct {
	applied, rejected, reconciles int
	lastDiscrepancies             int
}

func (m *recordingMetrics) MovementApplied(string, int, int, time.Duration) { m.applied++ }
func (m *recordingMetrics) MovementRejected(string, string)                 { m.rejected++ }
func (m *recordingMetrics) ReconcileFinished(d int) {
	m.reconciles++
	m.lastDiscrepancies = d
}

func TestReconcile_DetectaYRepara(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.inbound(t, "A", 10)
	f.inbound(t, "B", 3)
	rec := &recordingMetrics{}
	uc := appinv.NewReconcileUseCase(f.store.TxRunner(), rec, nil)

	report, err := uc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.Equal(t, 2, report.CheckedSKUs)

	f.store.CorruptProjection("A", 7)
	f.store.CorruptProjection("C", 2)

	report, err = uc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.False(t, report.Repaired)
	assert.Equal(t, []dto.ReconcileDiscrepancy{
		{SKU: "A", ProjectedQty: 7, LedgerQty: 10, Difference: -3},
		{SKU: "C", ProjectedQty: 2, LedgerQty: 0, Difference: 2},
	}, report.Discrepancies)
	assert.Equal(t, int64(7), f.qty(t, "A"))

	report, err = uc.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.True(t, report.Repaired)
	assert.Equal(t, int64(10), f.qty(t, "A"))
	assert.Equal(t, int64(0), f.qty(t, "C"))

	report, err = uc.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.Equal(t, 4, rec.reconciles)
	assert.Equal(t, 0, rec.lastDiscrepancies)
}

func TestMetrics_AplicadosYRechazados(t *testing.T) {
	f := newFixture(t, true)
	rec := &recordingMetrics{}
	s := f.store
	uc := appinv.NewSubmitMovementUseCase(s.TxRunner(), s.Catalog(), s.ReasonCodes(), rec, nil, appinv.SubmitConfig{})

	_, err := uc.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "INBOUND", Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}},
	})
	require.NoError(t, err)
	_, err = uc.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "OUTBOUND", Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: -2}},
	})
	require.Error(t, err)
	assert.Equal(t, 1, rec.applied)
	assert.Equal(t, 1, rec.rejected)
}
