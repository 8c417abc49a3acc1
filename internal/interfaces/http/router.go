package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	SettingsUC  *usecase.SettingsUseCase
	AdjustUC    *inventory.AdjustBatchesUseCase
	RestockUC   *inventory.RestockUseCase
	AuditUC     *inventory.AuditUseCase
	StatementUC *inventory.DebtStatementUseCase
	Realtime    *realtime.Manager
	Auth        AuthConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Auth))
	writers := RequireRole(RoleAdmin, RoleBodeguero)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", writers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/batches", productHandler.ListBatches)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.RestockUC, deps.AuditUC, deps.StatementUC, deps.ProductUC, deps.Realtime)
	invGroup.Post("/products/:id/adjustments", writers, inventoryHandler.AdjustBatches)
	invGroup.Post("/products/:id/batches", writers, inventoryHandler.Restock)
	invGroup.Get("/products/:id/stream", inventoryHandler.Stream)
	invGroup.Get("/batches/:id/ledger", inventoryHandler.BatchLedger)
	invGroup.Get("/batches/:id/debt-statement.pdf", inventoryHandler.DebtStatementPDF)
	invGroup.Get("/audit", RequireRole(RoleAdmin), inventoryHandler.Audit)

	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	invGroup.Get("/settings", settingsHandler.Get)
	invGroup.Patch("/settings", RequireRole(RoleAdmin), settingsHandler.Patch)
}
