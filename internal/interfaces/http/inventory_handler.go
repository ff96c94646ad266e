package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/dto"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// InventoryHandler lecturas de la proyección, sugerencia de reposición y reconciliación.
type InventoryHandler struct {
	query     *inventory.QueryUseCase
	lowStock  *inventory.LowStockUseCase
	reconcile *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query *inventory.QueryUseCase, lowStock *inventory.LowStockUseCase, reconcile *inventory.ReconcileUseCase) *InventoryHandler {
	return &InventoryHandler{query: query, lowStock: lowStock, reconcile: reconcile}
}

// List godoc
// @Summary      Inventario actual
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Prefijo de SKU o fragmento de nombre"
// @Param        category   query  string  false  "Categoría"
// @Param        kind       query  string  false  "ORIGINAL | BUNDLE"
// @Param        low_stock  query  bool    false  "Solo bajo mínimo"
// @Param        limit      query  int     false  "Máximo de filas (default 50)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	f := repository.InventoryFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		ProductKind:  c.Query("kind"),
		LowStockOnly: c.QueryBool("low_stock", false),
		Limit:        c.QueryInt("limit", 0),
		Offset:       c.QueryInt("offset", 0),
	}
	rows, err := h.query.CurrentInventory(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	return c.JSON(fiber.Map{
		"items": rows,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(rows)},
	})
}

// Quantity godoc
// @Summary      Cantidad de un SKU
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.QuantityResponse
// @Router       /api/inventory/{sku} [get]
func (h *InventoryHandler) Quantity(c *fiber.Ctx) error {
	sku := c.Params("sku")
	qty, err := h.query.QuantityOf(c.UserContext(), sku)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.QuantityResponse{SKU: sku, Qty: qty})
}

// LowStock godoc
// @Summary      Lista de reposición
// @Description  SKUs por debajo de su mínimo con la cantidad sugerida, ordenados por faltante.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Categoría"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.List(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// Reconcile godoc
// @Summary      Reconciliar proyección contra el ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        repair  query  bool  false  "Corregir la proyección"
// @Success      200  {object}  dto.ReconcileReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.reconcile.Reconcile(c.UserContext(), c.QueryBool("repair", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
