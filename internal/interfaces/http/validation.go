package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// bodyValidator validador compartido; los errores usan el nombre JSON del campo.
func bodyValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// parseBody decodifica y valida la forma del cuerpo. Con ok=false la respuesta
// 400 ya está escrita. Las reglas de negocio (signo por tipo, rango de la suma
// por SKU) quedan en el dominio.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	if err := bodyValidator().Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, badBody(c)
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    domain.CodeValidation,
			Message: "cuerpo inválido",
			Fields:  validationFields(verrs),
		})
	}
	return true, nil
}

func validationFields(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		// Namespace trae el tipo raíz: SubmitMovementRequest.lines[0].sku
		path := e.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		out[path] = describe(e)
	}
	return out
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "requerido"
	case "min":
		return fmt.Sprintf("mínimo %s", e.Param())
	case "max":
		return fmt.Sprintf("máximo %s", e.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", e.Param())
	default:
		return "inválido (" + e.Tag() + ")"
	}
}
