package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Submit        *inventory.SubmitMovementUseCase
	Batch         *inventory.BatchSubmitUseCase
	Delete        *inventory.DeleteMovementUseCase
	Query         *inventory.QueryUseCase
	LowStock      *inventory.LowStockUseCase
	Reconcile     *inventory.ReconcileUseCase
	HistoryReport *inventory.HistoryReportUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token;
// las escrituras exigen admin u operator y el reverso y la reconciliación solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
	admin := RequireRole(jwt.RoleAdmin)

	movementHandler := NewMovementHandler(deps.Submit, deps.Batch, deps.Delete, deps.Query)
	movements := api.Group("/movements")
	movements.Post("/", writer, movementHandler.Submit)
	movements.Post("/batch", writer, movementHandler.SubmitBatch)
	movements.Get("/:id", movementHandler.Get)
	movements.Delete("/:id", admin, movementHandler.Delete)

	bundleHandler := NewBundleHandler(deps.Submit, deps.Query)
	bundles := api.Group("/bundles")
	bundles.Get("/", bundleHandler.Composition)
	bundles.Post("/:sku/assemble", writer, bundleHandler.Assemble)
	bundles.Post("/:sku/break", writer, bundleHandler.Break)

	// Las rutas fijas van antes de /:sku
	inventoryHandler := NewInventoryHandler(deps.Query, deps.LowStock, deps.Reconcile)
	inv := api.Group("/inventory")
	inv.Get("/", inventoryHandler.List)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/reconcile", admin, inventoryHandler.Reconcile)
	inv.Get("/:sku", inventoryHandler.Quantity)

	historyHandler := NewHistoryHandler(deps.Query, deps.HistoryReport)
	api.Get("/history", historyHandler.List)
	api.Get("/history.pdf", historyHandler.PDF)
	api.Get("/reason-codes", historyHandler.ReasonCodes)
}
