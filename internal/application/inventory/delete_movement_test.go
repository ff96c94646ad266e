package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

func TestDelete_EntradaSeCompensa(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	original := f.inbound(t, "A", 7)

	rev, err := f.del.Delete(ctx, original.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, original.ID, rev.ReversalOf)
	assert.Equal(t, entity.ReasonReversal, rev.ReasonCode)
	assert.Equal(t, "admin-1", rev.CreatedBy)
	require.Len(t, rev.Lines, 1)
	assert.Equal(t, int64(-7), rev.Lines[0].QtyChange)
	assert.Equal(t, int64(0), f.qty(t, "A"))

	got, err := f.query.GetMovement(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, rev.ID, got.ReversedBy)
	f.assertProjectionMatchesLedger(t)
}

func TestDelete_BundleCopiaEfectosSinReexpandir(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.inbound(t, "A", 10)
	f.inbound(t, "B", 10)
	bundle, err := f.submit.CreateBundle(ctx, "K", 2, "", "tester")
	require.NoError(t, err)

	// Cambio posterior en la receta: el reverso debe usar los efectos originales
	require.NoError(t, f.store.AddBundleComponent(entity.BundleComponent{BundleSKU: "K", ComponentSKU: "A", QtyPerBundle: 5}))

	rev, err := f.del.Delete(ctx, bundle.ID, "admin-1")
	require.NoError(t, err)
	require.Len(t, rev.Effects, 2)
	assert.Equal(t, int64(4), rev.Effects[0].QtyChange)
	assert.Equal(t, int64(10), f.qty(t, "A"))
	assert.Equal(t, int64(10), f.qty(t, "B"))
	assert.Equal(t, int64(0), f.qty(t, "K"))
}

func TestDelete_Errores(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	// Caso 1: no existe
	_, err := f.del.Delete(ctx, "no-existe", "admin-1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Caso 2: doble reverso
	m := f.inbound(t, "A", 3)
	rev, err := f.del.Delete(ctx, m.ID, "admin-1")
	require.NoError(t, err)
	_, err = f.del.Delete(ctx, m.ID, "admin-1")
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// Caso 3: revertir un reverso
	_, err = f.del.Delete(ctx, rev.ID, "admin-1")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestDelete_EntradaYaConsumida_StockInsuficiente(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	in := f.inbound(t, "A", 5)
	_, err := f.submit.Submit(ctx, appinv.MovementInputDTO{
		MovementType: "OUTBOUND",
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: -4}},
	})
	require.NoError(t, err)

	_, err = f.del.Delete(ctx, in.ID, "admin-1")
	require.Error(t, err)
	assert.Equal(t, []domain.Shortfall{{SKU: "A", Required: 5, Available: 1, Shortfall: 4}}, domain.ShortfallsOf(err))

	got, err := f.query.GetMovement(ctx, in.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ReversedBy)
	assert.Equal(t, int64(1), f.qty(t, "A"))
}
