package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	appinv "github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
)

func TestBatch_ContinuaTrasFallos(t *testing.T) {
	f := newFixture(t, true)
	batch := appinv.NewBatchSubmitUseCase(f.submit, 10, nil)

	report, err := batch.SubmitBatchFromRequest(context.Background(), "tester", dto.BatchSubmitRequest{
		Movements: []dto.SubmitMovementRequest{
			{MovementType: "INBOUND", ReasonCode: "RETURN_B2C", Lines: []dto.MovementLineRequest{{SKU: "A", QtyChange: 5}}},
			{MovementType: "OUTBOUND", ReasonCode: "SHIP", Lines: []dto.MovementLineRequest{{SKU: "A", QtyChange: -9}}},
			{MovementType: "INBOUND", Lines: []dto.MovementLineRequest{{SKU: "NOPE", QtyChange: 1}}},
			{MovementType: "ADJUST", ReasonCode: "DAMAGE", Lines: []dto.MovementLineRequest{{SKU: "A", QtyChange: -2}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Len(t, report.MovementIDs, 2)
	require.Len(t, report.Failures, 2)

	assert.Equal(t, 1, report.Failures[0].Index)
	assert.Equal(t, domain.CodeInsufficientStock, report.Failures[0].Code)
	assert.Equal(t, []domain.Shortfall{{SKU: "A", Required: 9, Available: 5, Shortfall: 4}}, report.Failures[0].Shortfalls)
	assert.Equal(t, 2, report.Failures[1].Index)
	assert.Equal(t, domain.CodeUnknownSKU, report.Failures[1].Code)

	assert.Equal(t, int64(3), f.qty(t, "A"))
}

func TestBatch_Limites(t *testing.T) {
	f := newFixture(t, true)
	batch := appinv.NewBatchSubmitUseCase(f.submit, 1, nil)
	item := appinv.MovementInputDTO{MovementType: "INBOUND", Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}}}

	_, err := batch.SubmitBatch(context.Background(), nil)
	assert.Equal(t, domain.CodeValidation, domain.Code(err))

	_, err = batch.SubmitBatch(context.Background(), []appinv.MovementInputDTO{item, item})
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
	assert.Equal(t, int64(0), f.qty(t, "A"))
}

func TestBatch_ContextoCancelado_OmiteRestantes(t *testing.T) {
	f := newFixture(t, true)
	batch := appinv.NewBatchSubmitUseCase(f.submit, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	item := appinv.MovementInputDTO{MovementType: "INBOUND", Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}}}
	report, err := batch.SubmitBatch(ctx, []appinv.MovementInputDTO{item, item, item})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 3, report.Skipped)
	assert.Empty(t, report.Failures)
}
