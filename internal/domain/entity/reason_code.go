package entity

import "time"

// ReasonCategory agrupa códigos de motivo por familia de movimiento.
type ReasonCategory string

// Categorías de motivo.
const (
	ReasonInbound  ReasonCategory = "INBOUND"
	ReasonOutbound ReasonCategory = "OUTBOUND"
	ReasonAdjust   ReasonCategory = "ADJUST"
	ReasonProcess  ReasonCategory = "PROCESS"
)

// Códigos de motivo que el propio ledger utiliza.
const (
	ReasonBundleCreate = "BUNDLE_CREATE"
	ReasonBundleBreak  = "BUNDLE_BREAK"
	ReasonReversal     = "REVERSAL"
)

// ReasonCode motivo de un movimiento.
type ReasonCode struct {
	Code      string
	Label     string
	Category  ReasonCategory
	IsActive  bool
	CreatedAt time.Time
}

// CategoryFor devuelve la categoría de motivo esperada para un tipo de movimiento.
func CategoryFor(t MovementType) ReasonCategory {
	switch t {
	case MovementInbound:
		return ReasonInbound
	case MovementOutbound:
		return ReasonOutbound
	case MovementAdjust:
		return ReasonAdjust
	default:
		return ReasonProcess
	}
}

// DefaultReasonCodes motivos que se siembran en una base nueva.
var DefaultReasonCodes = []ReasonCode{
	{Code: "RECEIVE", Label: "Recepción de proveedor", Category: ReasonInbound, IsActive: true},
	{Code: "RETURN_B2C", Label: "Devolución B2C", Category: ReasonInbound, IsActive: true},
	{Code: "RETURN_MILKRUN", Label: "Devolución milkrun", Category: ReasonInbound, IsActive: true},
	{Code: "CP_MILKRUN", Label: "Ingreso milkrun marketplace", Category: ReasonInbound, IsActive: true},
	{Code: "SHIP", Label: "Despacho paquetería", Category: ReasonOutbound, IsActive: true},
	{Code: "DAMAGE", Label: "Daño", Category: ReasonAdjust, IsActive: true},
	{Code: "ADJ_PLUS", Label: "Ajuste de inventario (+)", Category: ReasonAdjust, IsActive: true},
	{Code: "ADJ_MINUS", Label: "Ajuste de inventario (-)", Category: ReasonAdjust, IsActive: true},
	{Code: ReasonBundleCreate, Label: "Armado de bundle", Category: ReasonProcess, IsActive: true},
	{Code: ReasonBundleBreak, Label: "Desarmado de bundle", Category: ReasonProcess, IsActive: true},
	{Code: "LABEL", Label: "Etiquetado", Category: ReasonProcess, IsActive: true},
	{Code: ReasonReversal, Label: "Reverso de movimiento", Category: ReasonProcess, IsActive: true},
}
