package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
)

// HistoryHandler historial de movimientos y catálogo de motivos.
type HistoryHandler struct {
	query  *inventory.QueryUseCase
	report *inventory.HistoryReportUseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(query *inventory.QueryUseCase, report *inventory.HistoryReportUseCase) *HistoryHandler {
	return &HistoryHandler{query: query, report: report}
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Más recientes primero; el filtro por SKU incluye los efectos de bundles.
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        sku    query  string  false  "SKU"
// @Param        limit  query  int     false  "Máximo de movimientos (default 100, máx 500)"
// @Success      200  {array}   dto.HistoryRowResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	rows, err := h.query.MovementHistory(c.UserContext(), c.Query("sku"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// PDF godoc
// @Summary      Historial en PDF
// @Tags         history
// @Security     Bearer
// @Produce      application/pdf
// @Param        sku    query  string  false  "SKU"
// @Param        limit  query  int     false  "Máximo de movimientos"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history.pdf [get]
func (h *HistoryHandler) PDF(c *fiber.Ctx) error {
	sku := c.Query("sku")
	out, err := h.report.Generate(c.UserContext(), sku, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	name := "historial.pdf"
	if sku != "" {
		name = fmt.Sprintf("historial-%s.pdf", sku)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	return c.Send(out)
}

// ReasonCodes godoc
// @Summary      Códigos de motivo
// @Tags         reason-codes
// @Security     Bearer
// @Produce      json
// @Param        active_only  query  bool  false  "Solo activos (default true)"
// @Success      200  {array}  dto.ReasonCodeResponse
// @Router       /api/reason-codes [get]
func (h *HistoryHandler) ReasonCodes(c *fiber.Ctx) error {
	list, err := h.query.ReasonCodes(c.UserContext(), c.QueryBool("active_only", true))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
