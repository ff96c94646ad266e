package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/inventory"
)

func lines(pairs ...any) []entity.MovementLine {
	var out []entity.MovementLine
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entity.MovementLine{SKU: pairs[i].(string), QtyChange: int64(pairs[i+1].(int))})
	}
	return out
}

func TestValidateLines(t *testing.T) {
	cases := []struct {
		name  string
		t     entity.MovementType
		lines []entity.MovementLine
		ok    bool
	}{
		{"inbound positivo", entity.MovementInbound, lines("A", 5, "B", 1), true},
		{"inbound negativo", entity.MovementInbound, lines("A", -5), false},
		{"outbound negativo", entity.MovementOutbound, lines("A", -5), true},
		{"outbound positivo", entity.MovementOutbound, lines("A", 5), false},
		{"ajuste mixto", entity.MovementAdjust, lines("A", 5, "B", -2), true},
		{"ajuste cero", entity.MovementAdjust, lines("A", 0), false},
		{"label cero", entity.MovementLabel, lines("A", 0, "B", 0), true},
		{"label con cantidad", entity.MovementLabel, lines("A", 1), false},
		{"bundle una línea", entity.MovementBundle, lines("SET", 3), true},
		{"bundle dos líneas", entity.MovementBundle, lines("SET", 3, "A", -1), false},
		{"unbundle negativo", entity.MovementUnbundle, lines("SET", -3), true},
		{"unbundle positivo", entity.MovementUnbundle, lines("SET", 3), false},
		{"sin líneas", entity.MovementInbound, nil, false},
		{"sku vacío", entity.MovementInbound, lines("  ", 1), false},
		{"tipo desconocido", entity.MovementType("TRANSFER"), lines("A", 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateLines(tc.t, tc.lines)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrValidation), "se esperaba VALIDATION_ERROR, fue %v", err)
		})
	}
}

func TestNormalizeLines_RecortaSKU(t *testing.T) {
	got := inventory.NormalizeLines([]entity.MovementLine{{SKU: " A-1 ", QtyChange: 1, Note: " x "}})
	assert.Equal(t, "A-1", got[0].SKU)
	assert.Equal(t, "x", got[0].Note)
}

func TestValidateLines_SumaPorSKUVerificada(t *testing.T) {
	over := []entity.MovementLine{{SKU: "A", QtyChange: math.MaxInt64}, {SKU: "A", QtyChange: math.MaxInt64}}
	assert.ErrorIs(t, inventory.ValidateLines(entity.MovementAdjust, over), domain.ErrValidation)

	under := []entity.MovementLine{{SKU: "A", QtyChange: -math.MaxInt64}, {SKU: "A", QtyChange: -1}}
	assert.ErrorIs(t, inventory.ValidateLines(entity.MovementOutbound, under), domain.ErrValidation)

	single := []entity.MovementLine{{SKU: "A", QtyChange: math.MinInt64}}
	assert.ErrorIs(t, inventory.ValidateLines(entity.MovementOutbound, single), domain.ErrValidation)

	// Mismo SKU repetido dentro de rango: se suma
	assert.NoError(t, inventory.ValidateLines(entity.MovementAdjust, lines("A", 3, " A ", -1)))
	assert.NoError(t, inventory.ValidateLines(entity.MovementInbound,
		[]entity.MovementLine{{SKU: "A", QtyChange: math.MaxInt64 - 1}, {SKU: "A", QtyChange: 1}}))
}

func TestNetDeltas(t *testing.T) {
	m := &entity.Movement{
		Lines:   lines("K", 2),
		Effects: []entity.MovementEffect{{SourceSKU: "K", TargetSKU: "A", QtyChange: -4}, {SourceSKU: "K", TargetSKU: "B", QtyChange: -2}},
	}
	got, err := inventory.NetDeltas(m)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"K": 2, "A": -4, "B": -2}, got)
	assert.Equal(t, m.Deltas(), got)

	m = &entity.Movement{Lines: []entity.MovementLine{{SKU: "A", QtyChange: math.MaxInt64}, {SKU: "A", QtyChange: math.MaxInt64}}}
	_, err = inventory.NetDeltas(m)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckCapacity(t *testing.T) {
	assert.NoError(t, inventory.CheckCapacity(map[string]int64{"A": 5, "B": -3}, map[string]int64{"A": 10, "B": 3}))
	assert.NoError(t, inventory.CheckCapacity(map[string]int64{"A": math.MaxInt64 - 10}, map[string]int64{"A": 10}))

	err := inventory.CheckCapacity(map[string]int64{"A": math.MaxInt64}, map[string]int64{"A": 10})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "A")
}
