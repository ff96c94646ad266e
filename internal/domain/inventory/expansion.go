package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// Expansion resultado de expandir la línea conductora de un BUNDLE/UNBUNDLE.
type Expansion struct {
	BundleSKU    string
	DrivingDelta int64 // +n al armar, -m al desarmar
	Effects      []entity.MovementEffect
}

// Expand calcula los efectos por componente de una línea conductora.
//
// BUNDLE n (n > 0): cada componente recibe -(qtyPerBundle * n).
// UNBUNDLE -m (m > 0): cada componente recibe +(qtyPerBundle * m).
//
// Es una función pura: la verificación de suficiencia se hace contra
// las filas bloqueadas dentro de la transacción (ver CheckSufficiency).
func Expand(t entity.MovementType, driving entity.MovementLine, components []entity.BundleComponent) (*Expansion, error) {
	if !t.Expands() {
		return nil, domain.Invalid("el tipo %s no se expande", t)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotABundle, driving.SKU)
	}

	units := driving.QtyChange
	sign := int64(-1) // armar consume componentes
	if t == entity.MovementUnbundle {
		units = -driving.QtyChange
		sign = 1
	}
	if units <= 0 {
		return nil, domain.Invalid("cantidad de bundle inválida %d para %s", driving.QtyChange, t)
	}

	effects := make([]entity.MovementEffect, 0, len(components))
	for _, c := range components {
		if c.BundleSKU != driving.SKU {
			return nil, fmt.Errorf("componente %s pertenece a %s, no a %s", c.ComponentSKU, c.BundleSKU, driving.SKU)
		}
		if c.ComponentSKU == driving.SKU {
			return nil, domain.Invalid("el bundle %s se contiene a sí mismo", driving.SKU)
		}
		if c.QtyPerBundle <= 0 {
			return nil, domain.Invalid("qty_per_bundle inválido (%d) para %s en %s", c.QtyPerBundle, c.ComponentSKU, c.BundleSKU)
		}
		if units > math.MaxInt64/c.QtyPerBundle {
			return nil, domain.Invalid("cantidad fuera de rango para %s", c.ComponentSKU)
		}
		effects = append(effects, entity.MovementEffect{
			SourceSKU: driving.SKU,
			TargetSKU: c.ComponentSKU,
			QtyChange: sign * c.QtyPerBundle * units,
			Note:      fmt.Sprintf("%s %s x%d (%d por unidad)", t, driving.SKU, units, c.QtyPerBundle),
		})
	}
	sort.SliceStable(effects, func(i, j int) bool { return effects[i].TargetSKU < effects[j].TargetSKU })

	return &Expansion{
		BundleSKU:    driving.SKU,
		DrivingDelta: driving.QtyChange,
		Effects:      effects,
	}, nil
}

// CheckSufficiency compara los deltas netos por SKU con la cantidad disponible
// y devuelve todos los SKUs que quedarían en negativo, ordenados.
// Los SKUs ausentes en available se consideran con 0.
func CheckSufficiency(deltas, available map[string]int64) []domain.Shortfall {
	var out []domain.Shortfall
	for sku, d := range deltas {
		if d >= 0 {
			continue
		}
		have := available[sku]
		if have+d < 0 {
			out = append(out, domain.Shortfall{
				SKU:       sku,
				Required:  -d,
				Available: have,
				Shortfall: -(have + d),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// SortedSKUs devuelve las claves de deltas ordenadas. El orden fijo de bloqueo
// evita interbloqueos entre transacciones que tocan los mismos SKUs.
func SortedSKUs(deltas map[string]int64) []string {
	skus := make([]string, 0, len(deltas))
	for sku := range deltas {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}
