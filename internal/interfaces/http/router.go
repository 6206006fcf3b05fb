package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturati/facturati-api/internal/application/auth"
	"github.com/facturati/facturati-api/internal/application/billing"
	"github.com/facturati/facturati-api/internal/application/stock"
	"github.com/facturati/facturati-api/internal/application/usecase"
	"github.com/facturati/facturati-api/internal/domain/entity"
)

// RouterDeps dépendances du router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	ProductUC     *usecase.ProductUseCase
	OrderUC       *usecase.OrderUseCase
	SupplierUC    *usecase.SupplierUseCase
	DashboardUC   *usecase.DashboardUseCase
	ClientUC      *billing.ClientUseCase
	QuoteUC       *billing.QuoteUseCase
	InvoiceUC     *billing.InvoiceUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	ConvertQuote  *billing.ConvertQuoteUseCase
	ConvertOrder  *billing.ConvertOrderUseCase
	ExportUC      *billing.ExportUseCase
	StockHistory  *stock.HistoryUseCase
	StockAdjust   *stock.AdjustUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router enregistre les routes de l'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (public pour l'instant, le temps de l'onboarding)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Routes protégées (Bearer Token requis)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protégé), ledger de stock inclus
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockHistory, deps.StockAdjust)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Get("/:id/ledger", stockHandler.GetLedger)

	// Stock (protégé) : rectifications et commandes liées au ledger
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/adjustments", stockHandler.RegisterAdjustment)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/orders/:id", stockHandler.GetLinkedOrder)

	// Orders (protégé)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/confirm", orderHandler.Confirm)
	orders.Post("/:id/deliver", orderHandler.Deliver)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Clients (protégé)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Suppliers (protégé, réservé à la gestion)
	suppliers := protected.Group("/suppliers", RequireRole(entity.RoleAdmin, entity.RoleGestionnaire))
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Quotes (protégé)
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.ConvertQuote, deps.ExportUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Put("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/convert", quoteHandler.Convert)
	quotes.Get("/:id/pdf", quoteHandler.PDF)

	// Invoices (protégé)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoiceUC, deps.ConvertOrder, deps.ExportUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/from-order/:id", invoiceHandler.FromOrder)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/xml", invoiceHandler.XML)

	// Dashboard (protégé)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Get)
}
