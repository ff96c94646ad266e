package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/infrastructure/memory"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	submit *appinv.SubmitMovementUseCase
	del    *appinv.DeleteMovementUseCase
	query  *appinv.QueryUseCase
}

func newFixture(t *testing.T, enforceCategory bool) *fixture {
	t.Helper()
	s := memory.New()
	for _, p := range []entity.Product{
		{SKU: "A", Name: "Componente A", MinStock: 5, IsActive: true},
		{SKU: "B", Name: "Componente B", IsActive: true},
		{SKU: "C", Name: "Componente C", IsActive: true},
		{SKU: "K", Name: "Kit A+B", ProductKind: entity.ProductKindBundle, IsActive: true},
		{SKU: "OLD", Name: "Descontinuado", IsActive: false},
	} {
		s.AddProduct(p)
	}
	require.NoError(t, s.AddBundleComponent(entity.BundleComponent{BundleSKU: "K", ComponentSKU: "A", QtyPerBundle: 2}))
	require.NoError(t, s.AddBundleComponent(entity.BundleComponent{BundleSKU: "K", ComponentSKU: "B", QtyPerBundle: 1}))

	tx := s.TxRunner()
	return &fixture{
		store: s,
		submit: appinv.NewSubmitMovementUseCase(tx, s.Catalog(), s.ReasonCodes(), nil, nil,
			appinv.SubmitConfig{EnforceReasonCategory: enforceCategory}).WithClock(func() time.Time { return fixedNow }),
		del: appinv.NewDeleteMovementUseCase(tx, nil, nil).WithClock(func() time.Time { return fixedNow }),
		query: appinv.NewQueryUseCase(s.Movements(), s.Inventory(), s.InventoryQuery(), s.Bundles(),
			s.History(), s.ReasonCodes(), appinv.HistoryLimits{Default: 100, Max: 500}),
	}
}

func (f *fixture) qty(t *testing.T, sku string) int64 {
	t.Helper()
	q, err := f.query.QuantityOf(context.Background(), sku)
	require.NoError(t, err)
	return q
}

func (f *fixture) inbound(t *testing.T, sku string, qty int64) *entity.Movement {
	t.Helper()
	m, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "INBOUND",
		ReasonCode:   "RECEIVE",
		CreatedBy:    "tester",
		Lines:        []appinv.LineInputDTO{{SKU: sku, QtyChange: qty}},
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) assertProjectionMatchesLedger(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	sums, err := f.store.Movements().SumDeltas(ctx)
	require.NoError(t, err)
	rows, err := f.store.Inventory().ListAll(ctx)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, sums[r.SKU], r.Qty, "proyección de %s", r.SKU)
	}
}

// ── Submit ───────────────────────────────────────────────────────────────────

func TestSubmit_Entrada_ActualizaProyeccion(t *testing.T) {
	f := newFixture(t, true)
	m := f.inbound(t, "A", 10)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, entity.MovementInbound, m.MovementType)
	assert.Equal(t, fixedNow, m.MovedAt)
	assert.Equal(t, "tester", m.CreatedBy)
	require.Len(t, m.Lines, 1)
	assert.Equal(t, m.ID, m.Lines[0].MovementID)
	assert.Empty(t, m.Effects)
	assert.Equal(t, int64(10), f.qty(t, "A"))
}

func TestSubmit_SalidaSinStock_RechazaConFaltantes(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 3)

	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "OUTBOUND",
		ReasonCode:   "SHIP",
		Lines: []appinv.LineInputDTO{
			{SKU: "A", QtyChange: -5},
			{SKU: "B", QtyChange: -1},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, []domain.Shortfall{
		{SKU: "A", Required: 5, Available: 3, Shortfall: 2},
		{SKU: "B", Required: 1, Available: 0, Shortfall: 1},
	}, domain.ShortfallsOf(err))

	// Nada se aplicó
	assert.Equal(t, int64(3), f.qty(t, "A"))
	assert.Equal(t, int64(0), f.qty(t, "B"))
	rows, err := f.query.MovementHistory(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSubmit_AjustesQueDesbordanSeRechazan(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 10)

	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "ADJUST",
		ReasonCode:   "ADJ_PLUS",
		Lines: []appinv.LineInputDTO{
			{SKU: "A", QtyChange: math.MaxInt64},
			{SKU: "A", QtyChange: math.MaxInt64},
		},
	})
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
	assert.Equal(t, int64(10), f.qty(t, "A"))
	f.assertProjectionMatchesLedger(t)
}

func TestSubmit_EntradaSobreElMaximo_EsValidacion(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 10)

	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "INBOUND",
		ReasonCode:   "RECEIVE",
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: math.MaxInt64}},
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
	assert.Empty(t, domain.ShortfallsOf(err))
	assert.Equal(t, int64(10), f.qty(t, "A"))
	f.assertProjectionMatchesLedger(t)

	// El máximo exacto sí cabe
	f.inbound(t, "A", math.MaxInt64-10)
	assert.Equal(t, int64(math.MaxInt64), f.qty(t, "A"))
}

func TestSubmit_ValidacionesSinIO(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	cases := []struct {
		name  string
		input appinv.MovementInputDTO
		code  string
	}{
		{"sin líneas", appinv.MovementInputDTO{MovementType: "INBOUND"}, domain.CodeValidation},
		{"tipo desconocido", appinv.MovementInputDTO{MovementType: "TRANSFER",
			Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}}}, domain.CodeValidation},
		{"SKU vacío", appinv.MovementInputDTO{MovementType: "INBOUND",
			Lines: []appinv.LineInputDTO{{SKU: "  ", QtyChange: 1}}}, domain.CodeValidation},
		{"entrada negativa", appinv.MovementInputDTO{MovementType: "INBOUND",
			Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: -1}}}, domain.CodeValidation},
		{"SKU inexistente", appinv.MovementInputDTO{MovementType: "INBOUND",
			Lines: []appinv.LineInputDTO{{SKU: "ZZZ", QtyChange: 1}}}, domain.CodeUnknownSKU},
		{"SKU inactivo", appinv.MovementInputDTO{MovementType: "INBOUND",
			Lines: []appinv.LineInputDTO{{SKU: "OLD", QtyChange: 1}}}, domain.CodeUnknownSKU},
		{"motivo inexistente", appinv.MovementInputDTO{MovementType: "INBOUND", ReasonCode: "NOPE",
			Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}}}, domain.CodeUnknownReason},
		{"motivo de otra categoría", appinv.MovementInputDTO{MovementType: "INBOUND", ReasonCode: "SHIP",
			Lines: []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}}}, domain.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.submit.Submit(ctx, tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, domain.Code(err))
		})
	}
}

func TestSubmit_SKUsDesconocidosSeListan(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "ADJUST",
		Lines: []appinv.LineInputDTO{
			{SKU: "X1", QtyChange: 1},
			{SKU: "A", QtyChange: 1},
			{SKU: "X2", QtyChange: 1},
		},
	})
	var unknown *domain.UnknownSKUError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"X1", "X2"}, unknown.SKUs)
}

func TestSubmit_CategoriaNoExigida_AceptaMotivoCruzado(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "INBOUND",
		ReasonCode:   "SHIP",
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}},
	})
	require.NoError(t, err)
}

func TestSubmit_MotivoInactivo(t *testing.T) {
	f := newFixture(t, true)
	f.store.AddReasonCode(entity.ReasonCode{Code: "LEGACY", Label: "viejo", Category: entity.ReasonInbound, IsActive: false})
	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "INBOUND",
		ReasonCode:   "LEGACY",
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrUnknownReason))
}

func TestSubmit_ContextoCancelado_NoConfirma(t *testing.T) {
	f := newFixture(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.submit.Submit(ctx, appinv.MovementInputDTO{
		MovementType: "INBOUND",
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: 4}},
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), f.qty(t, "A"))
}

func TestSubmit_Label_SinEfectoEnStock(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 2)
	m, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "LABEL",
		ReasonCode:   "LABEL",
		Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: 0}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, int64(2), f.qty(t, "A"))
}

// ── Bundles ──────────────────────────────────────────────────────────────────

func TestBundle_ArmadoConsumeComponentes(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 10)
	f.inbound(t, "B", 10)

	m, err := f.submit.CreateBundle(context.Background(), "K", 3, "", "tester")
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonBundleCreate, m.ReasonCode)
	assert.Equal(t, "armado de bundle: K x 3", m.Memo)
	require.Len(t, m.Effects, 2)
	assert.Equal(t, "A", m.Effects[0].TargetSKU)
	assert.Equal(t, int64(-6), m.Effects[0].QtyChange)
	assert.Equal(t, "B", m.Effects[1].TargetSKU)
	assert.Equal(t, int64(-3), m.Effects[1].QtyChange)

	assert.Equal(t, int64(3), f.qty(t, "K"))
	assert.Equal(t, int64(4), f.qty(t, "A"))
	assert.Equal(t, int64(7), f.qty(t, "B"))
	f.assertProjectionMatchesLedger(t)
}

func TestBundle_ComponenteInsuficiente_NadaSeAplica(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 10)
	f.inbound(t, "B", 10)
	_, err := f.submit.CreateBundle(context.Background(), "K", 3, "", "tester")
	require.NoError(t, err)

	// A=4 ya no alcanza para 10 kits (requiere 20)
	_, err = f.submit.CreateBundle(context.Background(), "K", 10, "", "tester")
	require.Error(t, err)
	assert.Equal(t, domain.CodeInsufficientStock, domain.Code(err))
	assert.Equal(t, []domain.Shortfall{
		{SKU: "A", Required: 20, Available: 4, Shortfall: 16},
		{SKU: "B", Required: 10, Available: 7, Shortfall: 3},
	}, domain.ShortfallsOf(err))

	assert.Equal(t, int64(3), f.qty(t, "K"))
	assert.Equal(t, int64(4), f.qty(t, "A"))
	assert.Equal(t, int64(7), f.qty(t, "B"))
}

func TestBundle_ArmarYDesarmarEsIdentidad(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 10)
	f.inbound(t, "B", 5)

	_, err := f.submit.CreateBundle(context.Background(), "K", 4, "", "tester")
	require.NoError(t, err)
	m, err := f.submit.Unbundle(context.Background(), "K", 4, "vuelta", "tester")
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonBundleBreak, m.ReasonCode)
	assert.Equal(t, int64(-4), m.Lines[0].QtyChange)

	assert.Equal(t, int64(0), f.qty(t, "K"))
	assert.Equal(t, int64(10), f.qty(t, "A"))
	assert.Equal(t, int64(5), f.qty(t, "B"))
	f.assertProjectionMatchesLedger(t)
}

func TestBundle_DesarmarMasDeLoExistente(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 4)
	f.inbound(t, "B", 2)
	_, err := f.submit.CreateBundle(context.Background(), "K", 2, "", "tester")
	require.NoError(t, err)

	_, err = f.submit.Unbundle(context.Background(), "K", 3, "", "tester")
	require.Error(t, err)
	assert.Equal(t, []domain.Shortfall{{SKU: "K", Required: 3, Available: 2, Shortfall: 1}}, domain.ShortfallsOf(err))
	assert.Equal(t, int64(0), f.qty(t, "A"))
}

func TestBundle_SKUSinComposicion(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.submit.CreateBundle(context.Background(), "C", 1, "", "tester")
	assert.True(t, errors.Is(err, domain.ErrNotABundle))
}

func TestBundle_VariasLineasRechazado(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
		MovementType: "BUNDLE",
		Lines: []appinv.LineInputDTO{
			{SKU: "K", QtyChange: 1},
			{SKU: "A", QtyChange: 1},
		},
	})
	assert.Equal(t, domain.CodeValidation, domain.Code(err))
}

// ── Concurrencia ─────────────────────────────────────────────────────────────

func TestSubmit_Concurrencia_SoloUnoConsumeElStock(t *testing.T) {
	f := newFixture(t, true)
	f.inbound(t, "A", 10)

	const workers = 2
	var wg sync.WaitGroup
	errs := make([]error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.submit.Submit(context.Background(), appinv.MovementInputDTO{
				MovementType: "OUTBOUND",
				ReasonCode:   "SHIP",
				Lines:        []appinv.LineInputDTO{{SKU: "A", QtyChange: -6}},
			})
		}(i)
	}
	close(start)
	wg.Wait()

	ok, rejected := 0, 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
		rejected++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(4), f.qty(t, "A"))
	f.assertProjectionMatchesLedger(t)
}

func TestSubmit_ConcurrenciaMuchasEntradas(t *testing.T) {
	f := newFixture(t, true)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.submit.Submit(context.Background(), appinv.MovementInputDTO{
				MovementType: "INBOUND",
				Lines:        []appinv.LineInputDTO{{SKU: "C", QtyChange: 2}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), f.qty(t, "C"))
	f.assertProjectionMatchesLedger(t)
}
