package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/auth"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/orders"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/stock"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/usecase"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	MaterialUC     *usecase.MaterialUseCase
	ProductUC      *usecase.ProductUseCase
	CustomerUC     *usecase.CustomerUseCase
	SettingsUC     *usecase.SettingsUseCase
	PricingUC      *usecase.PricingUseCase
	EntryUC        *stock.EntryUseCase
	AlertsUC       *stock.AlertsUseCase
	ReportUC       *stock.ReportUseCase
	FinishedUC     *stock.FinishedGoodsUseCase
	AvailabilityUC *stock.AvailabilityUseCase
	OrderUC        *orders.UseCase
	AuthUC         *auth.AuthUseCase
	CompanyRepo    repository.CompanyRepository
	PDFGen         orderPDFGenerator
	JWTSecret      string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Materiais (protegido)
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)

	// Produtos e ficha técnica (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Estoque: entradas, movimentos, alertas e relatório (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.EntryUC, deps.AlertsUC, deps.ReportUC, deps.FinishedUC)
	stockGroup.Post("/entries", stockHandler.RegisterEntry)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/movements/:material_id", stockHandler.MovementHistory)
	stockGroup.Get("/alerts", stockHandler.Alerts)
	stockGroup.Get("/product-alerts", stockHandler.ProductAlerts)
	stockGroup.Get("/report", stockHandler.Report)
	stockGroup.Post("/products/movements", stockHandler.AdjustProductStock)
	stockGroup.Get("/products/balances", stockHandler.ProductBalances)

	// Pedidos (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.AvailabilityUC, deps.CompanyRepo, deps.PDFGen)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/summary", orderHandler.FinancialSummary)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Patch("/:id/status", orderHandler.UpdateStatus)
	ordersGroup.Get("/:id/availability", orderHandler.CheckAvailability)
	ordersGroup.Get("/:id/pdf", orderHandler.DownloadPDF)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	// Precificação (protegido)
	pricing := protected.Group("/pricing")
	pricingHandler := NewPricingHandler(deps.PricingUC)
	pricing.Post("/target-profit", pricingHandler.TargetProfit)
	pricing.Get("/:product_id", pricingHandler.Calculate)

	// Ajustes de custo (protegido)
	settings := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", settingsHandler.Update)

	// Clientes (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
}
