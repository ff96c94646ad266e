package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
)

// MovementHandler alta, consulta y reverso de movimientos.
type MovementHandler struct {
	submit *inventory.SubmitMovementUseCase
	batch  *inventory.BatchSubmitUseCase
	del    *inventory.DeleteMovementUseCase
	query  *inventory.QueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	submit *inventory.SubmitMovementUseCase,
	batch *inventory.BatchSubmitUseCase,
	del *inventory.DeleteMovementUseCase,
	query *inventory.QueryUseCase,
) *MovementHandler {
	return &MovementHandler{submit: submit, batch: batch, del: del, query: query}
}

// Submit godoc
// @Summary      Registrar movimiento
// @Description  Valida, expande bundles y aplica líneas y efectos en una sola transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitMovementRequest  true  "movement_type, reason_code, lines"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	m, err := h.submit.SubmitFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// SubmitBatch godoc
// @Summary      Registrar lote de movimientos
// @Description  Cada elemento se aplica en su propia transacción; los fallos no detienen el lote.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchSubmitRequest  true  "movements"
// @Success      200   {object}  dto.BatchReport
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/batch [post]
func (h *MovementHandler) SubmitBatch(c *fiber.Ctx) error {
	var in dto.BatchSubmitRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	report, err := h.batch.SubmitBatchFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Get godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	m, err := h.query.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(m))
}

// Delete godoc
// @Summary      Reversar movimiento
// @Description  Registra un movimiento compensatorio; el original queda marcado como revertido.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	rev, err := h.del.Delete(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(rev))
}
