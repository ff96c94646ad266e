package inventory

import (
	"math"
	"strings"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// ValidateLines aplica las reglas de forma y signo por tipo de movimiento.
// No consulta almacenamiento: catálogo, motivos y stock se validan después.
//
//	INBOUND   todas > 0
//	OUTBOUND  todas < 0
//	ADJUST    todas != 0
//	LABEL     todas == 0 (sin efecto en stock)
//	BUNDLE    exactamente una línea > 0 (el bundle a armar)
//	UNBUNDLE  exactamente una línea < 0 (el bundle a desarmar)
func ValidateLines(t entity.MovementType, lines []entity.MovementLine) error {
	if !t.Valid() {
		return domain.Invalid("tipo de movimiento desconocido %q", string(t))
	}
	if len(lines) == 0 {
		return domain.Invalid("el movimiento no tiene líneas")
	}
	if t.Expands() && len(lines) != 1 {
		return domain.Invalid("%s requiere exactamente una línea con el SKU del bundle, recibidas %d", t, len(lines))
	}
	net := make(map[string]int64, len(lines))
	for i, l := range lines {
		sku := strings.TrimSpace(l.SKU)
		if sku == "" {
			return domain.Invalid("línea %d: SKU vacío", i+1)
		}
		if l.QtyChange == math.MinInt64 {
			return domain.Invalid("línea %d (%s): cantidad fuera de rango", i+1, l.SKU)
		}
		if err := checkSign(t, l.QtyChange); err != nil {
			return domain.Invalid("línea %d (%s): %s", i+1, l.SKU, err.Error())
		}
		sum, ok := addInt64(net[sku], l.QtyChange)
		if !ok {
			return domain.Invalid("línea %d (%s): la suma de líneas del SKU excede el rango de cantidades", i+1, l.SKU)
		}
		net[sku] = sum
	}
	return nil
}

// NetDeltas suma líneas y efectos por SKU como Movement.Deltas, pero con suma
// verificada: un desbordamiento de int64 es VALIDATION_ERROR.
func NetDeltas(m *entity.Movement) (map[string]int64, error) {
	out := make(map[string]int64, len(m.Lines)+len(m.Effects))
	add := func(sku string, qty int64) error {
		sum, ok := addInt64(out[sku], qty)
		if !ok {
			return domain.Invalid("%s: el cambio neto excede el rango de cantidades", sku)
		}
		out[sku] = sum
		return nil
	}
	for _, l := range m.Lines {
		if err := add(l.SKU, l.QtyChange); err != nil {
			return nil, err
		}
	}
	for _, e := range m.Effects {
		if err := add(e.TargetSKU, e.QtyChange); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CheckCapacity rechaza los incrementos que llevarían la cantidad de un SKU más allá de int64.
func CheckCapacity(deltas, available map[string]int64) error {
	for _, sku := range SortedSKUs(deltas) {
		d := deltas[sku]
		if d > 0 && available[sku] > math.MaxInt64-d {
			return domain.Invalid("%s: la cantidad resultante excede el máximo (disponible %d, cambio %+d)",
				sku, available[sku], d)
		}
	}
	return nil
}

// addInt64 suma a y b; ok=false si el resultado desborda. MinInt64 queda fuera
// de rango para que toda cantidad tenga opuesto.
func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) || s == math.MinInt64 {
		return 0, false
	}
	return s, true
}

type signError string

func (e signError) Error() string { return string(e) }

func checkSign(t entity.MovementType, qty int64) error {
	switch t {
	case entity.MovementInbound, entity.MovementBundle:
		if qty <= 0 {
			return signError("la cantidad debe ser positiva")
		}
	case entity.MovementOutbound, entity.MovementUnbundle:
		if qty >= 0 {
			return signError("la cantidad debe ser negativa")
		}
	case entity.MovementAdjust:
		if qty == 0 {
			return signError("un ajuste no puede ser cero")
		}
	case entity.MovementLabel:
		if qty != 0 {
			return signError("LABEL no afecta stock, la cantidad debe ser cero")
		}
	}
	return nil
}

// NormalizeLines recorta espacios de los SKUs y notas.
func NormalizeLines(lines []entity.MovementLine) []entity.MovementLine {
	out := make([]entity.MovementLine, len(lines))
	for i, l := range lines {
		l.SKU = strings.TrimSpace(l.SKU)
		l.Note = strings.TrimSpace(l.Note)
		out[i] = l
	}
	return out
}
