package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation         = errors.New("solicitud inválida")
	ErrUnknownSKU         = errors.New("SKU desconocido")
	ErrUnknownReason      = errors.New("código de motivo desconocido o inactivo")
	ErrNotABundle         = errors.New("el SKU no tiene composición de bundle registrada")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrConcurrentConflict = errors.New("conflicto de concurrencia, reintente la operación")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUnavailable        = errors.New("almacenamiento no disponible, reintente más tarde")
)

// Códigos estables expuestos a los clientes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnknownSKU         = "UNKNOWN_SKU"
	CodeUnknownReason      = "UNKNOWN_REASON"
	CodeNotABundle         = "NOT_A_BUNDLE"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeConcurrentConflict = "CONCURRENT_CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrValidation, CodeValidation},
	{ErrUnknownSKU, CodeUnknownSKU},
	{ErrUnknownReason, CodeUnknownReason},
	{ErrNotABundle, CodeNotABundle},
	{ErrInsufficientStock, CodeInsufficientStock},
	{ErrConcurrentConflict, CodeConcurrentConflict},
	{ErrNotFound, CodeNotFound},
	{ErrConflict, CodeConflict},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrForbidden, CodeForbidden},
	{ErrUnavailable, CodeUnavailable},
}

// Code devuelve el código estable asociado a err, o INTERNAL si no es un error de dominio.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// Invalid construye un error de validación con detalle.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Shortfall describe el faltante de un SKU al aplicar un movimiento.
type Shortfall struct {
	SKU       string `json:"sku"`
	Required  int64  `json:"required"`
	Available int64  `json:"available"`
	Shortfall int64  `json:"shortfall"`
}

// InsufficientStockError lista todos los SKUs que quedarían en negativo.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

// NewInsufficientStockError ordena los faltantes por SKU para que el mensaje sea estable.
func NewInsufficientStockError(shortfalls []Shortfall) *InsufficientStockError {
	list := append([]Shortfall(nil), shortfalls...)
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return &InsufficientStockError{Shortfalls: list}
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requerido %d, disponible %d, faltan %d)",
			s.SKU, s.Required, s.Available, s.Shortfall))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// UnknownSKUError lista los SKUs que no existen en el catálogo.
type UnknownSKUError struct {
	SKUs []string
}

func (e *UnknownSKUError) Error() string {
	return ErrUnknownSKU.Error() + ": " + strings.Join(e.SKUs, ", ")
}

func (e *UnknownSKUError) Unwrap() error { return ErrUnknownSKU }

// ShortfallsOf extrae los faltantes de err si es un error de stock insuficiente.
func ShortfallsOf(err error) []Shortfall {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise.Shortfalls
	}
	return nil
}
