package http

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
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
		domain.CodeInternal:           fiber.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

func TestRespondError_CabecerasRetryAfterYErrorInterno(t *testing.T) {
	app := fiber.New()
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("apply: %w", domain.ErrConcurrentConflict))
	})
	app.Get("/unavailable", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("tx: %w", domain.ErrUnavailable))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("conexión rechazada: 10.0.0.1"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/conflict", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get(fiber.HeaderRetryAfter))

	resp, err = app.Test(httptest.NewRequest("GET", "/unavailable", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get(fiber.HeaderRetryAfter))

	resp, err = app.Test(httptest.NewRequest("GET", "/internal", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}
