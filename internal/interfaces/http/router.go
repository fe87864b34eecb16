package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-pro/internal/application/auth"
	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/application/usecase"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	AuthUC     *auth.AuthUseCase
	Ledger     *appinv.LedgerUseCase
	Allocator  *appinv.AllocatorUseCase
	Movements  *appinv.MovementUseCase
	Reconcile  *appinv.ReconcileUseCase
	Reports    *appinv.ReportUseCase
	Clock      clock.Clock
	JWTSecret  string
}

// Router registra las rutas de la API.
//
// RBAC por rol:
//   - cajero:       lecturas de catálogo/lotes y reducción de stock (ventas)
//   - farmaceutico: lo anterior + recepción de lotes, ajustes, conciliación y reportes
//   - admin:        todo
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	manageRoles := []string{entity.RoleAdmin, entity.RoleFarmaceutico}

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Post("/", RequireRole(manageRoles...), productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(manageRoles...), productHandler.Update)

	// Batches (protegido): el libro de lotes de cada producto
	batchHandler := NewBatchHandler(deps.Ledger, deps.Clock)
	products.Get("/:id/batches", batchHandler.List)
	products.Post("/:id/batches", RequireRole(manageRoles...), batchHandler.Create)
	products.Patch("/:id/batches/:batchId", RequireRole(manageRoles...), batchHandler.Update)
	products.Get("/:id/price", batchHandler.Price)

	// Stock (protegido): salidas vía asignador FIFO; el cajero vende
	stockHandler := NewStockHandler(deps.Allocator)
	products.Post("/:id/stock/reduce", stockHandler.Reduce)
	products.Get("/:id/stock/can-fulfill", stockHandler.CanFulfill)

	// Movements y conciliación (protegido)
	movementHandler := NewMovementHandler(deps.Movements, deps.Reconcile)
	products.Get("/:id/movements", movementHandler.List)
	products.Post("/:id/batches/:batchId/adjust", RequireRole(manageRoles...), movementHandler.AdjustBatch)
	products.Get("/:id/reconcile", RequireRole(manageRoles...), movementHandler.ReconcileProduct)
	protected.Get("/inventory/reconcile", RequireRole(manageRoles...), movementHandler.ReconcileAll)

	// Reports (protegido)
	reports := protected.Group("/reports", RequireRole(manageRoles...))
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/out-of-stock", reportHandler.OutOfStock)
	reports.Get("/expiring", reportHandler.ExpiringSoon)
	reports.Get("/dead-stock", reportHandler.DeadStock)
	reports.Get("/valuation", reportHandler.Valuation)
	reports.Get("/valuation.pdf", reportHandler.ValuationPDF)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", RequireRole(manageRoles...), supplierHandler.Create)
	suppliers.Put("/:id", RequireRole(manageRoles...), supplierHandler.Update)
}
