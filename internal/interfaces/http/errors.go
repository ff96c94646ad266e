package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain"
)

// LocalError guarda el error original para que RequestLogger lo registre.
const LocalError = "request_error"

// unavailableRetryAfter segundos sugeridos mientras el breaker del almacenamiento está abierto.
const unavailableRetryAfter = "30"

var statusByCode = map[string]int{
	domain.CodeValidation:         fiber.StatusBadRequest,
	domain.CodeUnknownSKU:         fiber.StatusUnprocessableEntity,
	domain.CodeUnknownReason:      fiber.StatusUnprocessableEntity,
	domain.CodeNotABundle:         fiber.StatusUnprocessableEntity,
	domain.CodeInsufficientStock:  fiber.StatusConflict,
	domain.CodeConcurrentConflict: fiber.StatusConflict,
	domain.CodeNotFound:           fiber.StatusNotFound,
	domain.CodeConflict:           fiber.StatusConflict,
	domain.CodeUnauthorized:       fiber.StatusUnauthorized,
	domain.CodeForbidden:          fiber.StatusForbidden,
	domain.CodeUnavailable:        fiber.StatusServiceUnavailable,
}

// StatusFor devuelve el status HTTP del código de dominio; 500 si no se reconoce.
func StatusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

// respondError traduce err al cuerpo dto.ErrorResponse.
// CONCURRENT_CONFLICT lleva Retry-After: 0: el cliente puede reintentar de inmediato.
func respondError(c *fiber.Ctx, err error) error {
	c.Locals(LocalError, err)
	code := domain.Code(err)
	body := dto.ErrorResponse{Code: code, Message: err.Error()}
	switch code {
	case domain.CodeInsufficientStock:
		body.Shortfalls = domain.ShortfallsOf(err)
	case domain.CodeUnknownSKU:
		var u *domain.UnknownSKUError
		if errors.As(err, &u) {
			body.SKUs = u.SKUs
		}
	case domain.CodeConcurrentConflict:
		c.Set(fiber.HeaderRetryAfter, "0")
	case domain.CodeUnavailable:
		c.Set(fiber.HeaderRetryAfter, unavailableRetryAfter)
	case domain.CodeInternal:
		body.Message = "error interno"
	}
	return c.Status(StatusFor(code)).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.CodeValidation, Message: "cuerpo inválido"})
}
