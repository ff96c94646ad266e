package entity

import "github.com/shopspring/decimal"

// Tipos de producto del catálogo.
const (
	ProductKindOriginal = "ORIGINAL"
	ProductKindBundle   = "BUNDLE"
	ProductKindSet      = "SET"
)

// Product referencia de catálogo. El ledger no es dueño de estos datos:
// solo se usan para validar SKUs y para enriquecer vistas, nunca para aritmética de stock.
type Product struct {
	SKU         string
	Name        string
	Category    string
	Unit        string
	Location    string
	MinStock    int64
	Price       decimal.Decimal
	ProductKind string
	IsActive    bool
}
