package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/analytics"
	"github.com/jhoicas/supply-chain-api/internal/application/auth"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/application/procurement"
	"github.com/jhoicas/supply-chain-api/internal/application/temperature"
	"github.com/jhoicas/supply-chain-api/internal/application/usecase"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	StoreUC        *usecase.StoreUseCase
	SupplierUC     *usecase.SupplierUseCase
	SupplierItemUC *usecase.SupplierItemUseCase
	ItemUC         *usecase.ItemUseCase

	BatchUC  *inventory.BatchUseCase
	SalesUC  *inventory.SalesUseCase
	AdjustUC *inventory.AdjustUseCase

	StockRequestUC  *procurement.StockRequestUseCase
	ReplenishmentUC *procurement.ReplenishmentUseCase
	POUC            *procurement.POUseCase
	GoodsReceiptUC  *procurement.GoodsReceiptUseCase

	TemperatureUC *temperature.UseCase

	DashboardUC    *analytics.DashboardUseCase
	ReportUC       *analytics.ReportUseCase
	NotificationUC *analytics.NotificationUseCase

	JWTSecret string
}

const (
	admin       = entity.RoleAdmin
	manager     = entity.RoleStoreManager
	procurer    = entity.RoleProcurementStaff
	stockKeeper = entity.RoleInventoryStaff
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Desde aquí requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/profile", authHandler.Profile)

	onlyAdmin := RequireRole(admin)

	// Roles y usuarios
	userHandler := NewUserHandler(deps.UserUC)
	roles := protected.Group("/roles")
	roles.Get("/", userHandler.ListRoles)
	roles.Get("/:id", userHandler.GetRole)
	roles.Post("/", onlyAdmin, userHandler.CreateRole)

	users := protected.Group("/users", onlyAdmin)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)

	// Tiendas
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores := protected.Group("/stores")
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/", onlyAdmin, storeHandler.Create)
	stores.Patch("/:id", onlyAdmin, storeHandler.Update)
	stores.Delete("/:id", onlyAdmin, storeHandler.Delete)

	// Proveedores y mapeos proveedor-ítem
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.SupplierItemUC)
	supplierWrite := RequireRole(admin, procurer)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", supplierWrite, supplierHandler.Create)
	suppliers.Patch("/:id", supplierWrite, supplierHandler.Update)
	suppliers.Delete("/:id", supplierWrite, supplierHandler.Delete)

	mappings := protected.Group("/supplier-items")
	mappings.Get("/", supplierHandler.ListMappings)
	mappings.Get("/best", supplierHandler.BestMapping)
	mappings.Get("/:id", supplierHandler.GetMapping)
	mappings.Post("/", supplierWrite, supplierHandler.CreateMapping)
	mappings.Patch("/:id", supplierWrite, supplierHandler.UpdateMapping)
	mappings.Delete("/:id", supplierWrite, supplierHandler.DeleteMapping)

	// Ítems
	inventoryWrite := RequireRole(admin, stockKeeper)
	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Get("/:id/stock", itemHandler.Stock)
	items.Get("/:id/safety-stock", itemHandler.SafetyStock)
	items.Post("/", inventoryWrite, itemHandler.Create)
	items.Patch("/:id", inventoryWrite, itemHandler.Update)
	items.Delete("/:id", inventoryWrite, itemHandler.Delete)

	// Lotes, movimientos y ventas
	inventoryHandler := NewInventoryHandler(deps.BatchUC, deps.SalesUC)
	batches := protected.Group("/inventory-batches")
	batches.Get("/", inventoryHandler.ListBatches)
	batches.Get("/:id", inventoryHandler.GetBatch)
	batches.Post("/", inventoryWrite, inventoryHandler.CreateBatch)
	batches.Patch("/:id", inventoryWrite, inventoryHandler.UpdateBatch)
	batches.Delete("/:id", inventoryWrite, inventoryHandler.DeleteBatch)

	protected.Get("/inventory-transactions", inventoryHandler.ListTransactions)
	protected.Get("/inventory-transactions/:id", inventoryHandler.GetTransaction)

	sales := protected.Group("/sales")
	sales.Get("/", inventoryHandler.ListSales)
	sales.Get("/:id", inventoryHandler.GetSale)
	sales.Post("/", RequireRole(manager, admin), inventoryHandler.CreateSale)

	// Solicitudes de stock
	procurementWrite := RequireRole(procurer, admin)
	requestHandler := NewStockRequestHandler(deps.StockRequestUC, deps.ReplenishmentUC)
	requests := protected.Group("/stock-requests")
	requests.Get("/", requestHandler.List)
	requests.Post("/", RequireRole(manager, admin), requestHandler.Create)
	requests.Post("/cancel", procurementWrite, requestHandler.Cancel)
	requests.Post("/generate-po", procurementWrite, requestHandler.GeneratePO)
	requests.Post("/auto-po", procurementWrite, requestHandler.AutoGeneratePO)
	requests.Post("/auto-replenish", procurementWrite, requestHandler.AutoReplenish)
	requests.Post("/express-order", RequireRole(manager, procurer, admin), requestHandler.ExpressOrder)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id", procurementWrite, requestHandler.Update)

	// Órdenes de compra
	approvers := RequireRole(manager, admin)
	receivers := RequireRole(stockKeeper, admin)
	procurementHandler := NewProcurementHandler(deps.POUC, deps.GoodsReceiptUC)
	orders := protected.Group("/procurement")
	orders.Get("/", procurementHandler.List)
	orders.Get("/pending-approvals", procurementHandler.PendingApprovals)
	orders.Post("/", procurementWrite, procurementHandler.Create)
	orders.Get("/:id", procurementHandler.GetByID)
	orders.Get("/:id/pdf", procurementHandler.PDF)
	orders.Get("/:id/xml", procurementHandler.XML)
	orders.Patch("/:id", procurementWrite, procurementHandler.Update)
	orders.Delete("/:id", procurementWrite, procurementHandler.Delete)
	orders.Post("/:id/submit", procurementWrite, procurementHandler.Submit)
	orders.Post("/:id/approve", approvers, procurementHandler.Approve)
	orders.Post("/:id/reject", approvers, procurementHandler.Reject)
	orders.Post("/:id/send", procurementWrite, procurementHandler.Send)
	orders.Post("/:id/cancel", procurementWrite, procurementHandler.Cancel)
	orders.Post("/:id/confirm", onlyAdmin, procurementHandler.Confirm)
	orders.Post("/:id/receive", receivers, procurementHandler.Receive)
	orders.Post("/:id/reject-receipt", receivers, procurementHandler.RejectReceipt)

	receipts := protected.Group("/goods-receipts")
	receipts.Get("/", procurementHandler.ListReceipts)
	receipts.Get("/:id", procurementHandler.GetReceipt)
	receipts.Post("/", receivers, procurementHandler.CreateReceipt)
	receipts.Delete("/:id", receivers, procurementHandler.DeleteReceipt)

	// Cadena de frío
	temperatureHandler := NewTemperatureHandler(deps.TemperatureUC, deps.AdjustUC)
	temps := protected.Group("/temperature")
	temps.Get("/alerts", RequireRole(manager, stockKeeper, admin), temperatureHandler.Alerts)
	temps.Get("/logs/:batchId", RequireRole(manager, stockKeeper, admin), temperatureHandler.Logs)
	temps.Post("/check", onlyAdmin, temperatureHandler.Check)

	adminGroup := protected.Group("/admin", onlyAdmin)
	adminGroup.Post("/inventory/adjust", temperatureHandler.AdjustInventory)
	adminGroup.Post("/temperature/set", temperatureHandler.SetTemperature)

	// Reportes y notificaciones
	reportHandler := NewReportHandler(deps.DashboardUC, deps.ReportUC, deps.NotificationUC)
	reports := protected.Group("/reports", RequireRole(manager, procurer, admin))
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/procurement", reportHandler.Procurement)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/gross-profit", reportHandler.GrossProfit)
	reports.Get("/expired", reportHandler.Expired)
	reports.Get("/:kind/export", reportHandler.Export)

	protected.Get("/notifications", reportHandler.Notifications)

	// Tareas
	taskHandler := NewTaskHandler(deps.ReplenishmentUC)
	protected.Post("/tasks/auto-replenish/trigger", procurementWrite, taskHandler.TriggerAutoReplenish)
}
