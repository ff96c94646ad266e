package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
)

// BundleHandler armado, desarmado y registro de composición.
type BundleHandler struct {
	submit *inventory.SubmitMovementUseCase
	query  *inventory.QueryUseCase
}

// NewBundleHandler construye el handler.
func NewBundleHandler(submit *inventory.SubmitMovementUseCase, query *inventory.QueryUseCase) *BundleHandler {
	return &BundleHandler{submit: submit, query: query}
}

// Assemble godoc
// @Summary      Armar bundles
// @Description  Suma quantity al bundle y descuenta los componentes según su composición.
// @Tags         bundles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string             true  "SKU del bundle"
// @Param        body  body  dto.BundleRequest  true  "quantity, memo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/bundles/{sku}/assemble [post]
func (h *BundleHandler) Assemble(c *fiber.Ctx) error {
	var in dto.BundleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	m, err := h.submit.CreateBundle(c.UserContext(), bundleSKU(c), in.Quantity, in.Memo, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// Break godoc
// @Summary      Desarmar bundles
// @Tags         bundles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string             true  "SKU del bundle"
// @Param        body  body  dto.BundleRequest  true  "quantity, memo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/bundles/{sku}/break [post]
func (h *BundleHandler) Break(c *fiber.Ctx) error {
	var in dto.BundleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	m, err := h.submit.Unbundle(c.UserContext(), bundleSKU(c), in.Quantity, in.Memo, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// bundleSKU copia el parámetro de ruta; fiber reutiliza el buffer de la petición
// y el SKU queda guardado en el movimiento y en la proyección.
func bundleSKU(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("sku"))
}

// Composition godoc
// @Summary      Composición de bundles
// @Tags         bundles
// @Security     Bearer
// @Produce      json
// @Param        bundle_sku  query  string  false  "Filtrar por bundle. Vacío = todos."
// @Success      200  {array}  dto.CompositionRowResponse
// @Router       /api/bundles [get]
func (h *BundleHandler) Composition(c *fiber.Ctx) error {
	rows, err := h.query.BundleComposition(c.UserContext(), c.Query("bundle_sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}
