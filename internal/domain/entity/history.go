package entity

import "time"

// Origen de una entrada del historial.
const (
	EntryLine   = "LINE"
	EntryEffect = "EFFECT"
)

// HistoryEntry una línea o efecto dentro de una fila de historial.
type HistoryEntry struct {
	Kind        string // LINE | EFFECT
	SKU         string
	ProductName string
	QtyChange   int64
	SourceSKU   string // solo efectos: bundle que originó el ajuste
	Note        string
}

// HistoryRow un movimiento aplicado, desnormalizado para auditoría y UI.
type HistoryRow struct {
	MovementID   string
	MovementType MovementType
	Channel      string
	ReasonCode   string
	ReasonLabel  string
	Memo         string
	MovedAt      time.Time
	CreatedBy    string
	CreatedAt    time.Time
	ReversalOf   string
	ReversedBy   string
	Entries      []HistoryEntry
}
