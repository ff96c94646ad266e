package entity

import "time"

// MovementType tipo de movimiento del ledger.
type MovementType string

// Tipos de movimiento.
const (
	MovementInbound  MovementType = "INBOUND"  // entrada
	MovementOutbound MovementType = "OUTBOUND" // salida
	MovementAdjust   MovementType = "ADJUST"   // ajuste (+/-)
	MovementBundle   MovementType = "BUNDLE"   // armado de bundle (consume componentes)
	MovementUnbundle MovementType = "UNBUNDLE" // desarmado de bundle (devuelve componentes)
	MovementLabel    MovementType = "LABEL"    // etiquetado, sin efecto en stock
)

// MovementTypes todos los tipos válidos, en orden de presentación.
var MovementTypes = []MovementType{
	MovementInbound, MovementOutbound, MovementAdjust,
	MovementBundle, MovementUnbundle, MovementLabel,
}

// Valid indica si t es un tipo conocido.
func (t MovementType) Valid() bool {
	for _, mt := range MovementTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// Expands indica si el tipo se despacha al motor de expansión de bundles.
func (t MovementType) Expands() bool {
	return t == MovementBundle || t == MovementUnbundle
}

// Movement cabecera de un movimiento. Inmutable una vez aplicado;
// la única marca posterior es ReversedBy cuando se registra su reverso.
type Movement struct {
	ID           string
	MovementType MovementType
	Channel      string
	ReasonCode   string
	Memo         string
	MovedAt      time.Time
	CreatedBy    string
	CreatedAt    time.Time
	ReversalOf   string // ID del movimiento que este compensa
	ReversedBy   string // ID del movimiento que compensó a este
	Lines        []MovementLine
	Effects      []MovementEffect
}

// MovementLine par SKU/delta enviado por el cliente.
type MovementLine struct {
	ID         string
	MovementID string
	SKU        string
	QtyChange  int64
	Note       string
	CreatedAt  time.Time
}

// MovementEffect ajuste derivado por la expansión de bundles; nunca lo crea un cliente.
type MovementEffect struct {
	ID         string
	MovementID string
	SourceSKU  string // bundle
	TargetSKU  string // componente
	QtyChange  int64
	Note       string
	CreatedAt  time.Time
}

// Deltas suma por SKU las líneas y efectos del movimiento.
func (m *Movement) Deltas() map[string]int64 {
	out := make(map[string]int64, len(m.Lines)+len(m.Effects))
	for _, l := range m.Lines {
		out[l.SKU] += l.QtyChange
	}
	for _, e := range m.Effects {
		out[e.TargetSKU] += e.QtyChange
	}
	return out
}

// Touches indica si el movimiento afecta a sku por línea o efecto.
func (m *Movement) Touches(sku string) bool {
	for _, l := range m.Lines {
		if l.SKU == sku {
			return true
		}
	}
	for _, e := range m.Effects {
		if e.TargetSKU == sku || e.SourceSKU == sku {
			return true
		}
	}
	return false
}
