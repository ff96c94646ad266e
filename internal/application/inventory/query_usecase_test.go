package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

func TestHistory_FidelidadYOrden(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	earlier := fixedNow.Add(-time.Hour)

	_, err := f.submit.Submit(ctx, appinv.MovementInputDTO{
		MovementType: "INBOUND",
		ReasonCode:   "RECEIVE",
		Memo:         "proveedor",
		MovedAt:      &earlier,
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: 10}, {SKU: "B", QtyChange: 10}},
	})
	require.NoError(t, err)
	bundle, err := f.submit.CreateBundle(ctx, "K", 1, "", "tester")
	require.NoError(t, err)
	f.inbound(t, "C", 1)

	rows, err := f.query.MovementHistory(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "INBOUND", rows[2].MovementType, "el movimiento más antiguo va al final")
	assert.Equal(t, "Recepción de proveedor", rows[2].ReasonLabel)
	assert.Len(t, rows[2].Entries, 2)

	// Filtro por componente: aparece el armado vía efecto
	rows, err = f.query.MovementHistory(ctx, "B", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	var found bool
	for _, r := range rows {
		if r.MovementID != bundle.ID {
			continue
		}
		found = true
		require.Len(t, r.Entries, 3)
		assert.Equal(t, entity.EntryLine, r.Entries[0].Kind)
		assert.Equal(t, "K", r.Entries[0].SKU)
		assert.Equal(t, entity.EntryEffect, r.Entries[2].Kind)
		assert.Equal(t, "B", r.Entries[2].SKU)
		assert.Equal(t, "K", r.Entries[2].SourceSKU)
		assert.Equal(t, int64(-1), r.Entries[2].QtyChange)
		assert.Equal(t, "Componente B", r.Entries[2].ProductName)
	}
	assert.True(t, found)

	rows, err = f.query.MovementHistory(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = f.query.MovementHistory(ctx, "", -1)
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
}

func TestQuery_GetMovement(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	m := f.inbound(t, "A", 1)

	got, err := f.query.GetMovement(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Len(t, got.Lines, 1)

	_, err = f.query.GetMovement(ctx, "desconocido")
	assert.Equal(t, domain.CodeNotFound, domain.Code(err))
}

func TestQuery_InventarioYComposicion(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.store.AddProduct(entity.Product{SKU: "P", Name: "Precio", Price: decimal.RequireFromString("2.50"), IsActive: true})
	f.inbound(t, "P", 4)
	f.inbound(t, "A", 3)

	rows, err := f.query.CurrentInventory(ctx, repository.InventoryFilter{Search: "prec"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "P", rows[0].SKU)
	assert.True(t, rows[0].StockValue.Equal(decimal.RequireFromString("10")))

	low, err := f.query.CurrentInventory(ctx, repository.InventoryFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "A", low[0].SKU)

	comp, err := f.query.BundleComposition(ctx, "K")
	require.NoError(t, err)
	require.Len(t, comp, 2)
	assert.Equal(t, "A", comp[0].ComponentSKU)
	assert.Equal(t, int64(3), comp[0].ComponentStock)
	assert.Equal(t, int64(1), comp[0].MaxAssemblable)
	assert.Equal(t, "Kit A+B", comp[0].BundleName)
}

func TestQuery_ReasonCodes(t *testing.T) {
	f := newFixture(t, true)
	f.store.AddReasonCode(entity.ReasonCode{Code: "OLD", Label: "viejo", Category: entity.ReasonAdjust})

	all, err := f.query.ReasonCodes(context.Background(), false)
	require.NoError(t, err)
	active, err := f.query.ReasonCodes(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, len(all)-1, len(active))
}

func TestLowStock_SugerenciaYPrioridad(t *testing.T) {
	f := newFixture(t, true)
	f.store.AddProduct(entity.Product{SKU: "M", Name: "Mínimo 10", MinStock: 10, Price: decimal.NewFromInt(3), IsActive: true})
	f.inbound(t, "A", 4) // min 5: déficit 1
	f.inbound(t, "M", 1) // min 10: déficit 9

	list, err := appinv.NewLowStockUseCase(f.store.InventoryQuery()).List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "M", list[0].SKU)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(15), list[0].IdealStock)
	assert.Equal(t, int64(14), list[0].SuggestedOrderQty)
	assert.True(t, list[0].EstimatedCost.Equal(decimal.NewFromInt(42)))

	assert.Equal(t, "A", list[1].SKU)
	assert.Equal(t, int64(8), list[1].IdealStock) // ceil(7.5)
	assert.Equal(t, int64(4), list[1].SuggestedOrderQty)
}
