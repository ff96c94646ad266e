package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// HTTPRecorder lo implementa infrastructure/metrics.
type HTTPRecorder interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
}

// RequestLogger registra método, ruta, status y latencia de cada petición.
// Las respuestas 5xx se registran en Error junto con el error original.
func RequestLogger(log *logger.Logger, rec HTTPRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if rec != nil {
			rec.RecordHTTPRequest(c.Method(), route, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			if cause, ok := c.Locals(LocalError).(error); ok {
				ev = ev.Err(cause)
			} else if err != nil {
				ev = ev.Err(err)
			}
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("actor", GetUserID(c)).
			Msg("http")
		return err
	}
}
